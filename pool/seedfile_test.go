package pool

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSeedFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seed")

	writer, _, _ := newTestEngine()
	writer.SetSeedFile(path)
	writer.poolFilled = true
	writer.allowSeedUpdate = true

	writer.mu.Lock()
	if err := writer.saveSeedFile(); err != nil {
		writer.mu.Unlock()
		t.Fatalf("saveSeedFile: %s", err)
	}
	writer.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat seed file: %s", err)
	}
	if info.Size() != PoolSize {
		t.Fatalf("seed file has wrong size: got %d, want %d", info.Size(), PoolSize)
	}

	reader, _, _ := newTestEngine()
	reader.SetSeedFile(path)

	reader.mu.Lock()
	before := append([]byte(nil), reader.rnd[:PoolSize]...)
	ok := reader.loadSeedFile()
	reader.mu.Unlock()

	if !ok {
		t.Fatalf("loadSeedFile reported failure on a freshly written seed file")
	}
	if bytes.Equal(before, reader.rnd[:PoolSize]) {
		t.Fatalf("loadSeedFile did not change the pool")
	}
	if !reader.allowSeedUpdate {
		t.Fatalf("loadSeedFile did not grant allowSeedUpdate")
	}
}

func TestLoadSeedFileMissingIsNotAnError(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine()
	e.SetSeedFile(filepath.Join(t.TempDir(), "does-not-exist"))

	e.mu.Lock()
	ok := e.loadSeedFile()
	allow := e.allowSeedUpdate
	e.mu.Unlock()

	if ok {
		t.Fatalf("loadSeedFile should report false for a missing file")
	}
	if !allow {
		t.Fatalf("a missing seed file should still grant allowSeedUpdate, so Close can create one")
	}
}

func TestLoadSeedFileWrongSizeIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seed")
	if err := os.WriteFile(path, []byte("too short"), 0o600); err != nil {
		t.Fatalf("write test seed file: %s", err)
	}

	e, _, _ := newTestEngine()
	e.SetSeedFile(path)

	e.mu.Lock()
	ok := e.loadSeedFile()
	allow := e.allowSeedUpdate
	e.mu.Unlock()

	if ok {
		t.Fatalf("loadSeedFile should report false for a wrong-size file")
	}
	if allow {
		t.Fatalf("a wrong-size seed file must not grant allowSeedUpdate")
	}
}

func TestSaveSeedFileRefusesUnfilledPool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seed")

	e, _, _ := newTestEngine()
	e.SetSeedFile(path)
	e.allowSeedUpdate = true // permission alone is not enough

	e.mu.Lock()
	err := e.saveSeedFile()
	e.mu.Unlock()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if _, err := os.Stat(path); err == nil {
		t.Fatalf("saveSeedFile wrote a file despite the pool never having been filled")
	}
}

func TestSetSeedFilePanicsOnSecondCall(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine()
	e.SetSeedFile("/tmp/a")

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic re-registering the seed file")
		}
	}()
	e.SetSeedFile("/tmp/b")
}
