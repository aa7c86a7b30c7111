package sqlite

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func TestBackend_AttachCreatesAndSeedsFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "pkmn.db")
	var logs bytes.Buffer
	config := types.Config{
		Backend:      types.BackendSQLite,
		DatabasePath: dbPath,
		Logger:       slog.New(slog.NewTextHandler(&logs, nil)),
	}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
	if !strings.Contains(logs.String(), "seeded reference database") {
		t.Errorf("first attach should seed, logs: %s", logs.String())
	}

	// Attaching an attached backend is a no-op.
	if err := b.Attach(config); err != nil {
		t.Errorf("second Attach: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	logs.Reset()
	b = NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	defer b.Detach()
	if strings.Contains(logs.String(), "seeded") {
		t.Errorf("populated file must not be seeded again, logs: %s", logs.String())
	}

	e, err := b.Species("Pikachu", types.GameCrystal)
	if err != nil {
		t.Fatalf("Species: %v", err)
	}
	if e.NationalDex != 25 {
		t.Errorf("Pikachu national dex = %d, want 25", e.NationalDex)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach: %v", err)
	}
	if _, err := b.Item("Potion", types.GameRed); !errors.Is(err, types.ErrDatabaseDetached) {
		t.Errorf("lookup after Detach: got %v, want ErrDatabaseDetached", err)
	}
}

func TestBackend_InMemory(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	pockets, err := b.Pockets(types.GameEmerald)
	if err != nil {
		t.Fatalf("Pockets: %v", err)
	}
	if len(pockets) != 6 {
		t.Errorf("Emerald pockets = %d, want 5 bag pockets and the PC", len(pockets))
	}
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{})
	if !errors.Is(err, types.ErrBackendEmpty) {
		t.Errorf("Attach with empty config: got %v, want ErrBackendEmpty", err)
	}
}
