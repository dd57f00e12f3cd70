package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/prgraph/pkg/dataset"
)

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"BTYP", "M_NR", "Z_MNR", "BEZ"},
		[][]string{{"A", "'4711", "4712", "Pumpe"}, {"B", "4712", "4713"}},
		dataset.DefaultSchema(),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestNew(t *testing.T) {
	ds := testDataset(t)
	s := New("rel.csv", ds, time.Hour)

	if !ValidID(s.ID) {
		t.Errorf("ID %q is not a valid session id", s.ID)
	}
	if s.IsExpired() {
		t.Error("new session should not be expired")
	}
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != time.Hour {
		t.Errorf("lifetime = %v, want 1h", got)
	}
	if other := New("rel.csv", ds, time.Hour); other.ID == s.ID {
		t.Error("session ids should be unique")
	}
}

func TestNewDefaultTTL(t *testing.T) {
	s := New("", testDataset(t), 0)
	if got := s.ExpiresAt.Sub(s.CreatedAt); got != DefaultTTL {
		t.Errorf("lifetime = %v, want %v", got, DefaultTTL)
	}
}

func TestValidID(t *testing.T) {
	for id, want := range map[string]bool{
		"0b9f3c52-0d7c-4c1e-9a59-0f3b0a0f5f11": true,
		"":                                     false,
		"../../etc/passwd":                     false,
		"not-a-uuid":                           false,
	} {
		if got := ValidID(id); got != want {
			t.Errorf("ValidID(%q) = %v, want %v", id, got, want)
		}
	}
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ds := testDataset(t)
			s := New("rel.csv", ds, time.Hour)
			if err := store.Set(ctx, s); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "rel.csv" {
				t.Errorf("Name = %q, want rel.csv", got.Name)
			}
			if got.Dataset.Version() != ds.Version() {
				t.Errorf("Version = %s, want %s", got.Dataset.Version(), ds.Version())
			}
			if got.Dataset.Len() != 2 || got.Dataset.At(0).A != "4711" {
				t.Errorf("dataset not restored: %+v", got.Dataset.Records())
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, s.ID); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			live := New("live", testDataset(t), time.Hour)
			dead := New("dead", testDataset(t), time.Hour)
			dead.ExpiresAt = time.Now().Add(-time.Second)

			for _, s := range []*Session{live, dead} {
				if err := store.Set(ctx, s); err != nil {
					t.Fatalf("Set: %v", err)
				}
			}

			if _, err := store.Get(ctx, dead.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get expired: err = %v, want ErrNotFound", err)
			}

			expired, err := store.Cleanup(ctx)
			if err != nil {
				t.Fatalf("Cleanup: %v", err)
			}
			if name == "memory" && (len(expired) != 1 || expired[0].ID != dead.ID) {
				t.Errorf("Cleanup returned %d sessions, want the expired one", len(expired))
			}
			if _, err := store.Get(ctx, live.ID); err != nil {
				t.Errorf("live session lost: %v", err)
			}
		})
	}
}

func TestFileStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.json")); err != nil {
		t.Errorf("unparseable file should be left alone: %v", err)
	}
	if _, err := store.Get(context.Background(), "../notes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get with path id: err = %v, want ErrNotFound", err)
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty dir")
	}
}
