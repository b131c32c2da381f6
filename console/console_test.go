package console

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberreach/sandfall/world"
	"github.com/emberreach/sandfall/world/material"
)

func newTestConsole(t *testing.T) (*Console, *world.World) {
	t.Helper()
	m := world.NewManager(world.ManagerConfig{
		ChunkW: 16, ChunkH: 16,
		MaxLoaded:   9,
		StorageRoot: t.TempDir(),
		Seed:        1,
	}, nil)
	w := world.NewWorld(m)
	return New(w, slog.New(slog.NewTextHandler(os.Stderr, nil))), w
}

func TestConsoleSetThenGet(t *testing.T) {
	c, w := newTestConsole(t)
	c.WithReader(strings.NewReader("set 3 3 sand\n")).Run(context.Background())
	if got := w.Get(3, 3); got != material.Sand {
		t.Errorf("expected sand at (3,3), got %s", got)
	}
}

func TestConsoleUnknownCommandDoesNotPanic(t *testing.T) {
	c, _ := newTestConsole(t)
	c.WithReader(strings.NewReader("frobnicate\n")).Run(context.Background())
}

func TestConsoleDumpPNGWritesFile(t *testing.T) {
	c, w := newTestConsole(t)
	w.UpdatePlayerPosition(8, 8)
	w.Set(1, 1, material.Stone)

	path := filepath.Join(t.TempDir(), "chunk.png")
	c.WithReader(strings.NewReader("dump-png 0 0 " + path + "\n")).Run(context.Background())

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected dump-png to create %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty PNG file")
	}
}

func TestConsoleHistoryIsBounded(t *testing.T) {
	c, _ := newTestConsole(t)
	var sb strings.Builder
	for i := 0; i < maxHistoryEntries+20; i++ {
		sb.WriteString("help\n")
	}
	c.WithReader(strings.NewReader(sb.String())).Run(context.Background())
	if len(c.history) != maxHistoryEntries {
		t.Errorf("expected history capped at %d, got %d", maxHistoryEntries, len(c.history))
	}
}
