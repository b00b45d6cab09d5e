package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskboard/internal/task"
)

// DefaultKey is the key snapshots are stored under.
const DefaultKey = "tasks"

// CorruptSuffix is appended to the key when a malformed snapshot is set aside.
const CorruptSuffix = ".corrupt"

// LoadReport describes what Load found.
type LoadReport struct {
	Found      bool    // a snapshot existed under the key
	Reset      bool    // the snapshot was malformed and an empty board was used
	BackupKey  string  // where the malformed snapshot was kept, if Reset
	BackupFile string  // where an unparsable store file was moved, if Reset
	Problems   []error // why the snapshot was rejected
	Pending    int
	Completed  int
}

// Valid reports whether the snapshot (if any) was accepted.
func (r *LoadReport) Valid() bool {
	return len(r.Problems) == 0
}

// Adapter saves boards to and loads boards from a KV store.
type Adapter struct {
	kv     KV
	key    string
	logger *log.Logger
	schema *jsonschema.Schema
}

// NewAdapter creates an adapter storing snapshots in kv under key.
// An empty key uses DefaultKey; a nil logger discards output.
func NewAdapter(kv KV, key string, logger *log.Logger) (*Adapter, error) {
	if kv == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Adapter{kv: kv, key: key, logger: logger, schema: schema}, nil
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes the full snapshot of b.
func (a *Adapter) Save(ctx context.Context, b *task.Board) error {
	snap := SnapshotOf(b)
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	a.logger.Debug("snapshot saved", "key", a.key, "pending", len(snap.Pending), "completed", len(snap.Completed))
	return nil
}

// Load reads the snapshot. Missing or malformed snapshots yield an empty
// board; only store failures are returned as errors.
func (a *Adapter) Load(ctx context.Context) (*task.Board, *LoadReport, error) {
	board, raw, report, err := a.read(ctx)
	if err != nil {
		return nil, nil, err
	}
	if report.Valid() {
		a.logger.Debug("tasks loaded", "key", a.key, "pending", report.Pending, "completed", report.Completed)
		return board, report, nil
	}

	report.Reset = true
	var cerr *CorruptFileError
	if errors.As(report.Problems[0], &cerr) {
		if err := a.setAsideFile(report); err != nil {
			return nil, nil, err
		}
		a.logger.Warn("unreadable store file, starting empty",
			"key", a.key, "backup", report.BackupFile, "first", report.Problems[0])
		return task.NewBoard(), report, nil
	}

	report.BackupKey = a.key + CorruptSuffix
	if err := a.kv.Set(ctx, report.BackupKey, raw); err != nil {
		a.logger.Error("failed to back up malformed snapshot", "key", report.BackupKey, "err", err)
		report.BackupKey = ""
	}
	a.logger.Warn("malformed snapshot, starting empty",
		"key", a.key, "backup", report.BackupKey, "problems", len(report.Problems), "first", report.Problems[0])
	return task.NewBoard(), report, nil
}

// setAsideFile moves an unparsable backing file out of the way so later
// saves start from an empty store.
func (a *Adapter) setAsideFile(report *LoadReport) error {
	fkv, ok := a.kv.(interface{ SetAside() (string, error) })
	if !ok {
		return nil
	}
	backup, err := fkv.SetAside()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	report.BackupFile = backup
	return nil
}

// Check validates the stored snapshot without changing anything.
func (a *Adapter) Check(ctx context.Context) (*LoadReport, error) {
	_, _, report, err := a.read(ctx)
	return report, err
}

func (a *Adapter) read(ctx context.Context) (*task.Board, []byte, *LoadReport, error) {
	report := &LoadReport{}
	raw, err := a.kv.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return task.NewBoard(), nil, report, nil
		}
		var cerr *CorruptFileError
		if errors.As(err, &cerr) {
			report.Found = true
			report.Problems = []error{&ValidationError{Err: cerr}}
			return nil, nil, report, nil
		}
		return nil, nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	report.Found = true

	snap, problems := Decode(a.schema, raw)
	if len(problems) > 0 {
		report.Problems = problems
		return nil, raw, report, nil
	}
	board, problems := snap.Board()
	if len(problems) > 0 {
		report.Problems = problems
		return nil, raw, report, nil
	}
	report.Pending = len(snap.Pending)
	report.Completed = len(snap.Completed)
	return board, raw, report, nil
}
