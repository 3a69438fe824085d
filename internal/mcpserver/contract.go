package mcpserver

// Vocabulary describes the record format and the accepted field values for
// LLM consumers creating records or filtering operations.
const Vocabulary = `# Tablero Record Vocabulary

Field names are Spanish and match the export document.

## Operaciones

| Field         | Values |
|---------------|--------|
| tipo          | Descarga, Clasificación |
| lugar         | FRIGALSA, ISP, PAY-PAY, ATUNLO |
| fecha         | YYYY-MM-DD or YYYY-MM-DDTHH:MM, local time |
| descripcion   | free text |
| personaIds    | ids from the personal collection |
| estado        | pendiente (default), completado |

New operations are always pendiente. Use set_operation_status to complete one.

## Notas

| Field      | Values |
|------------|--------|
| area       | Túnel, Empaquetado, Glaseo, Corte, Echar y tratar, Elaboración, Otros |
| fecha      | YYYY-MM-DD or YYYY-MM-DDTHH:MM |
| contenido  | free text |
| personaIds | ids from the personal collection |

Other area names are accepted and shown under a generic badge.

## Filters (filter_operations)

- fecha: a single day.
- estado: todos (default), pendiente, completado.
- semana: todas (default), actual (Sunday to Saturday of this week), proxima.
- busqueda: case-insensitive text found in descripcion or lugar.
- Results are ordered by day, pendientes first within a day.

## Charts (chart)

weekly_stats, operations_week, operations_month, notes_week, notes_month,
notes_distribution.

## Export document (import_snapshot)

` + "```" + `json
{
  "version": "1.0",
  "timestamp": "2024-03-13T09:00:00.000Z",
  "stores": {"notas": [], "operaciones": [], "personal": []}
}
` + "```" + `

Every collection present under stores replaces the stored one; absent
collections are kept.
`
