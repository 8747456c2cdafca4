package mixer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixer.json")
	if err := os.WriteFile(path, []byte(`{"master": 0.5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan float64, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(s *Settings) {
			if s.Master != nil {
				got <- *s.Master
			}
		})
	}()

	// Neighbouring files and bad documents are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{"master": 0.1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"master": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"master": 0.9}`), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case v := <-got:
			if v == 0.1 {
				t.Fatalf("reloaded a different file")
			}
			if v != 0.9 {
				continue
			}
		case <-timeout:
			t.Fatalf("no reload within 5s")
		}
		break
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}
