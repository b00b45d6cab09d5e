package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fileKV, err := OpenFile(filepath.Join(dir, "nested", "store.json"))
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	sqliteKV, err := OpenSQLite(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { sqliteKV.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"file":   fileKV,
		"sqlite": sqliteKV,
	}
}

func TestKVGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "tasks"); !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Get on empty store: got %v, want ErrKeyNotFound", err)
			}

			if err := kv.Set(ctx, "tasks", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := kv.Set(ctx, "tasks", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			// Values need not be JSON.
			if err := kv.Set(ctx, "other", []byte("not json {")); err != nil {
				t.Fatalf("Set raw failed: %v", err)
			}

			got, err := kv.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `{"a":2}` {
				t.Errorf("Get: got %s, want {\"a\":2}", got)
			}
			got, err = kv.Get(ctx, "other")
			if err != nil || string(got) != "not json {" {
				t.Errorf("Get raw: got %q, %v", got, err)
			}

			if err := kv.Delete(ctx, "tasks"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := kv.Get(ctx, "tasks"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get after delete: got %v, want ErrKeyNotFound", err)
			}
			if err := kv.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete missing key: %v", err)
			}
		})
	}
}

func TestFileKVPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	first, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	if err := first.Set(ctx, "tasks", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := second.Get(ctx, "tasks")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get after reopen: got %q, %v", got, err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	kv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	_, err = kv.Get(ctx, "tasks")
	var cerr *CorruptFileError
	if !errors.As(err, &cerr) || cerr.Path != path {
		t.Fatalf("Get on corrupt file: got %v, want CorruptFileError", err)
	}

	if err := kv.Set(ctx, "tasks", []byte("v1")); err != nil {
		t.Fatalf("Set over corrupt file failed: %v", err)
	}
	got, err := kv.Get(ctx, "tasks")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get after Set: got %q, %v", got, err)
	}
	backup, err := os.ReadFile(path + CorruptSuffix)
	if err != nil || string(backup) != "{broken" {
		t.Errorf("backup file: got %q, %v", backup, err)
	}
}

func TestFileKVSetAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	kv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	if got, err := kv.SetAside(); err != nil || got != "" {
		t.Errorf("SetAside on missing file: got %q, %v", got, err)
	}
	if err := kv.Set(context.Background(), "tasks", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := kv.SetAside(); err != nil || got != "" {
		t.Errorf("SetAside on valid file: got %q, %v", got, err)
	}

	if err := os.WriteFile(path, []byte(`{"tasks": "{\"pending\":[`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := kv.SetAside()
	if err != nil || got != path+CorruptSuffix {
		t.Fatalf("SetAside on corrupt file: got %q, %v", got, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("store file still present: %v", err)
	}
}

func TestSQLiteKVPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := first.Set(ctx, "tasks", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	got, err := second.Get(ctx, "tasks")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get after reopen: got %q, %v", got, err)
	}
}

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver  Driver
		wantErr bool
	}{
		{driver: DriverFile},
		{driver: ""},
		{driver: DriverSQLite},
		{driver: DriverMemory},
		{driver: "redis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.driver), func(t *testing.T) {
			kv, err := Open(tt.driver, filepath.Join(dir, "s-"+string(tt.driver)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if kv != nil {
				kv.Close()
			}
		})
	}
}
