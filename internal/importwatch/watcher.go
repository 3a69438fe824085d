// Package importwatch imports export files dropped into a watched directory.
//
// Every *.json file written directly under the directory is imported once:
// imported and duplicate files move to imported/, malformed ones to
// rejected/. A file is only read after it has gone unmodified for the settle
// period, and it is only rejected when two reads in a row give the same
// malformed bytes, so a copy that is still in progress is retried instead.
// Files that fail for other reasons stay and are retried on the next scan.
package importwatch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/tablero/internal/apperr"
	"github.com/starford/tablero/internal/checksum"
	"github.com/starford/tablero/internal/recordservice"
	"github.com/starford/tablero/internal/storage"
)

// Subdirectories receiving processed files.
const (
	ImportedDir = "imported"
	RejectedDir = "rejected"
)

// DefaultSettle is how long a file must stay unmodified before it is read.
const DefaultSettle = time.Second

const debounce = 200 * time.Millisecond

// Importer applies export documents.
type Importer interface {
	Import(ctx context.Context, data []byte, source string) (*recordservice.ImportResult, error)
	AlreadyImported(ctx context.Context, sum string) (bool, error)
}

// Callback is called after each successful import.
type Callback func(name string, res *recordservice.ImportResult)

// Scanner imports the files of one drop folder. It is not safe for
// concurrent use; Watch drives it from a single goroutine.
type Scanner struct {
	imp    Importer
	files  storage.Provider
	logger *slog.Logger
	cb     Callback
	settle time.Duration
	now    func() time.Time

	// malformed holds the checksum of the last unparsable read per file.
	malformed map[string]string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSettle sets the quiet period a file needs before it is read.
func WithSettle(d time.Duration) Option {
	return func(s *Scanner) {
		if d >= 0 {
			s.settle = d
		}
	}
}

// WithCallback sets the function called after each import.
func WithCallback(cb Callback) Option {
	return func(s *Scanner) { s.cb = cb }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScanner creates a scanner over files.
func NewScanner(imp Importer, files storage.Provider, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{
		imp:       imp,
		files:     files,
		logger:    logger,
		settle:    DefaultSettle,
		now:       time.Now,
		malformed: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan processes every pending file once. It returns the number imported and
// whether some file was left for a later scan because it was not settled yet.
func (s *Scanner) Scan(ctx context.Context) (imported int, waiting bool, err error) {
	pending, err := s.files.List()
	if err != nil {
		return 0, false, err
	}
	present := make(map[string]bool, len(pending))
	for _, f := range pending {
		present[f.Name] = true
		if ctx.Err() != nil {
			return imported, waiting, ctx.Err()
		}
		if s.now().Sub(f.ModTime) < s.settle {
			s.logger.Debug("importwatch: not settled", slog.String("file", f.Name))
			waiting = true
			continue
		}
		ok, retry := s.process(ctx, f)
		if ok {
			imported++
		}
		waiting = waiting || retry
	}
	for name := range s.malformed {
		if !present[name] {
			delete(s.malformed, name)
		}
	}
	return imported, waiting, nil
}

// process handles one settled file. retry reports that the file stays for
// a confirming read.
func (s *Scanner) process(ctx context.Context, f storage.FileMeta) (ok, retry bool) {
	seen, err := s.imp.AlreadyImported(ctx, f.Checksum)
	if err != nil {
		s.logger.Warn("importwatch: lookup failed", slog.String("file", f.Name), slog.String("error", err.Error()))
		return false, false
	}
	if seen {
		s.logger.Info("importwatch: duplicate skipped", slog.String("file", f.Name))
		s.moveTo(f.Name, ImportedDir)
		return false, false
	}

	data, err := s.files.Read(f.Name)
	if err != nil {
		s.logger.Warn("importwatch: read failed", slog.String("file", f.Name), slog.String("error", err.Error()))
		return false, false
	}
	res, err := s.imp.Import(ctx, data, "drop:"+f.Name)
	if errors.Is(err, apperr.ErrMalformedSnapshot) {
		sum := checksum.Sum(data)
		if prev, ok := s.malformed[f.Name]; !ok || prev != sum {
			s.malformed[f.Name] = sum
			s.logger.Info("importwatch: unreadable, retrying", slog.String("file", f.Name), slog.String("error", err.Error()))
			return false, true
		}
		delete(s.malformed, f.Name)
		s.logger.Warn("importwatch: rejected", slog.String("file", f.Name), slog.String("error", err.Error()))
		s.moveTo(f.Name, RejectedDir)
		return false, false
	}
	if err != nil {
		s.logger.Error("importwatch: import failed", slog.String("file", f.Name), slog.String("error", err.Error()))
		return false, false
	}

	delete(s.malformed, f.Name)
	s.logger.Info("importwatch: imported",
		slog.String("file", f.Name), slog.Int("records", res.Records))
	s.moveTo(f.Name, ImportedDir)
	if s.cb != nil {
		s.cb(f.Name, res)
	}
	return true, false
}

func (s *Scanner) moveTo(name, dir string) {
	if err := s.files.Move(name, filepath.Join(dir, name)); err != nil {
		s.logger.Warn("importwatch: move failed", slog.String("file", name), slog.String("error", err.Error()))
	}
}

// Watch scans the directory once, then again shortly after any snapshot file
// under it is created or written, until ctx is cancelled. While a file is
// waiting to settle or to be re-read, scans repeat every settle period.
func (s *Scanner) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := s.files.Root()
	if err := w.Add(root); err != nil {
		return err
	}
	s.logger.Info("importwatch: started", slog.String("dir", root), slog.Duration("settle", s.settle))

	// scanTimer debounces bursts of write events and schedules retries.
	var scanTimer *time.Timer
	var scanCh <-chan time.Time

	scheduleScan := func(after time.Duration) {
		if scanTimer == nil {
			scanTimer = time.NewTimer(after)
			scanCh = scanTimer.C
			return
		}
		scanTimer.Stop()
		scanTimer.Reset(after)
		scanCh = scanTimer.C
	}
	retryDelay := max(s.settle, debounce)

	scan := func(stage string) {
		_, waiting, err := s.Scan(ctx)
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("importwatch: "+stage+" scan failed", slog.String("error", err.Error()))
		}
		if waiting && ctx.Err() == nil {
			scheduleScan(retryDelay)
		}
	}

	scan("initial")

	for {
		select {
		case <-ctx.Done():
			if scanTimer != nil {
				scanTimer.Stop()
			}
			s.logger.Info("importwatch: stopped")
			return nil

		case <-scanCh:
			scanCh = nil
			scan("scheduled")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") || !storage.IsSnapshotFile(name) {
				continue
			}
			if filepath.Dir(ev.Name) != root {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				s.logger.Debug("importwatch: change", slog.String("file", name), slog.String("op", ev.Op.String()))
				scheduleScan(debounce)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("importwatch: error", slog.String("error", watchErr.Error()))
		}
	}
}
