package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/pkg/core/logging"
)

func TestRunBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "units"), 0755); err != nil {
		t.Fatal(err)
	}

	w, err := New(Config{
		Dir:      dir,
		Debounce: 200 * time.Millisecond,
		Filter:   func(name string) bool { return strings.HasSuffix(name, ".toml") },
		Logger:   logging.Wrap(log.Discard()),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(names []string) { batches <- names }) }()

	for _, name := range []string{"units/root.toml", "units/fr.toml", "units/skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte("a = \"b\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-batches:
		want := []string{"units/fr.toml", "units/root.toml"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("batch = %v, want %v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("no batch delivered")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(Config{Dir: filepath.Join(t.TempDir(), "missing"), Logger: logging.Wrap(log.Discard())})
	if err == nil {
		t.Error("New() error = nil, want failure for a missing directory")
	}
}
