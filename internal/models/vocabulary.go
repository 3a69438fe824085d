package models

import "strings"

// OperationType is the kind of an operation. Only the declared values are
// recognized; anything else is carried through as-is and reported by Known.
type OperationType string

const (
	OperationUnloading      OperationType = "Descarga"
	OperationClassification OperationType = "Clasificación"
)

// OperationTypes lists the recognized operation types in display order.
var OperationTypes = []OperationType{OperationUnloading, OperationClassification}

// Known reports whether t is a recognized operation type.
func (t OperationType) Known() bool {
	return t == OperationUnloading || t == OperationClassification
}

// Plural returns the chart series label for the type.
func (t OperationType) Plural() string {
	switch t {
	case OperationUnloading:
		return "Descargas"
	case OperationClassification:
		return "Clasificaciones"
	default:
		return string(t)
	}
}

// Place is the client or site an operation is performed for.
type Place string

const (
	PlaceFrigalsa Place = "FRIGALSA"
	PlaceISP      Place = "ISP"
	PlacePayPay   Place = "PAY-PAY"
	PlaceAtunlo   Place = "ATUNLO"
)

// PlaceUnknown is the display bucket for places outside the vocabulary.
const PlaceUnknown Place = "OTRO"

// Places lists the known clients in the order the dashboard presents them.
var Places = []Place{PlaceFrigalsa, PlaceISP, PlacePayPay, PlaceAtunlo}

// Known reports whether p is one of the known clients.
func (p Place) Known() bool {
	for _, k := range Places {
		if p == k {
			return true
		}
	}
	return false
}

// Display returns p when known and PlaceUnknown otherwise.
func (p Place) Display() Place {
	if p.Known() {
		return p
	}
	return PlaceUnknown
}

// Status is the lifecycle state of an operation.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusCompleted Status = "completado"
)

// Statuses lists the recognized statuses.
var Statuses = []Status{StatusPending, StatusCompleted}

// Known reports whether s is a recognized status.
func (s Status) Known() bool {
	return s == StatusPending || s == StatusCompleted
}

// OrDefault returns s, or StatusPending when s is empty.
func (s Status) OrDefault() Status {
	if s == "" {
		return StatusPending
	}
	return s
}

// Area is the work area a note belongs to. The vocabulary is open: values
// outside it are valid and fall back to the default display category.
type Area string

const (
	AreaTunnel      Area = "Túnel"
	AreaPacking     Area = "Empaquetado"
	AreaGlazing     Area = "Glaseo"
	AreaCutting     Area = "Corte"
	AreaTreatment   Area = "Echar y tratar"
	AreaElaboration Area = "Elaboración"
	AreaOther       Area = "Otros"
)

// AreaGeneral is the category shown for notes without an area.
const AreaGeneral Area = "General"

// Areas lists the recognized areas.
var Areas = []Area{AreaTunnel, AreaPacking, AreaGlazing, AreaCutting, AreaTreatment, AreaElaboration, AreaOther}

// ChartAreas is the fixed category axis of the notes charts.
var ChartAreas = []Area{AreaTunnel, AreaPacking, AreaGlazing, AreaCutting, AreaTreatment}

// Known reports whether a is in the area vocabulary, ignoring case.
func (a Area) Known() bool {
	for _, k := range Areas {
		if strings.EqualFold(string(a), string(k)) {
			return true
		}
	}
	return false
}

// OrGeneral returns a, or AreaGeneral when a is blank.
func (a Area) OrGeneral() Area {
	if strings.TrimSpace(string(a)) == "" {
		return AreaGeneral
	}
	return a
}
