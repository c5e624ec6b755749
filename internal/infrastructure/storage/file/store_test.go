package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/craftlink/marketplace-core/internal/core/ports"
)

func TestStore_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	payload := []byte(`{"items":[{"material_id":"7"}]}`)
	if err := s.Save(ctx, "cart", payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "cart")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("round trip mismatch: %s", got)
	}
}

func TestStore_SaveOverwritesWholesale(t *testing.T) {
	s, _ := New(t.TempDir())
	ctx := context.Background()

	_ = s.Save(ctx, "session", []byte("first"))
	_ = s.Save(ctx, "session", []byte("second"))

	got, err := s.Load(ctx, "session")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected last write to win, got %s", got)
	}
}

func TestStore_LoadMissingKey(t *testing.T) {
	s, _ := New(t.TempDir())

	_, err := s.Load(context.Background(), "orders")
	if !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestStore_DeleteMissingKeyIsNoOp(t *testing.T) {
	s, _ := New(t.TempDir())

	if err := s.Delete(context.Background(), "orders"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestStore_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)

	if err := s.Save(context.Background(), "cart", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cart.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file must be renamed away")
	}
}
