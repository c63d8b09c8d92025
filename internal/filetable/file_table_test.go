package filetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ben-Lichtman/editr/internal/filestate"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenLoadsFromDiskOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "note.txt", "hello")

	tbl := New()
	if err := tbl.Open(path, "s1", ""); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Open(path, "s2", ""); err != nil {
		t.Fatal(err)
	}

	got, err := tbl.Read(path, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}

	// A concurrent edit via s1 must be visible to a read issued for s2,
	// since both share the same table entry rather than a private copy.
	if err := tbl.Write(path, 5, []byte(", world")); err != nil {
		t.Fatal(err)
	}
	got, _ = tbl.Read(path, 0, 12)
	if string(got) != "hello, world" {
		t.Fatalf("got %q", got)
	}
}

func TestCloseEvictsOnLastSession(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "note.txt", "hi")

	tbl := New()
	tbl.Open(path, "s1", "")
	tbl.Open(path, "s2", "")

	if !tbl.Contains(path) {
		t.Fatal("expected file to be open")
	}
	if err := tbl.Close(path, "s1"); err != nil {
		t.Fatal(err)
	}
	if !tbl.Contains(path) {
		t.Fatal("file should still be open while s2 remains attached")
	}
	if err := tbl.Close(path, "s2"); err != nil {
		t.Fatal(err)
	}
	if tbl.Contains(path) {
		t.Fatal("file should be evicted once the last session detaches")
	}
}

func TestOperationsOnUnopenedPathFail(t *testing.T) {
	tbl := New()
	if _, err := tbl.Read("/nope", 0, 0); err != ErrNotOpen {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
	if err := tbl.Write("/nope", 0, []byte("x")); err != ErrNotOpen {
		t.Fatalf("err = %v, want ErrNotOpen", err)
	}
}

func TestFlushWritesRopeContentsToDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "note.txt", "hello")

	tbl := New()
	if err := tbl.Open(path, "s1", ""); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Write(path, 5, []byte(" world")); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Flush(path); err != nil {
		t.Fatal(err)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != "hello world" {
		t.Fatalf("on-disk contents = %q", onDisk)
	}
}

func TestForEachSessionEnumeratesAttached(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "note.txt", "x")

	tbl := New()
	tbl.Open(path, "s1", "")
	tbl.Open(path, "s2", "")

	seen := map[filestate.SessionID]bool{}
	tbl.ForEachSession(path, func(id filestate.SessionID) { seen[id] = true })

	if !seen["s1"] || !seen["s2"] || len(seen) != 2 {
		t.Fatalf("seen = %v", seen)
	}
}
