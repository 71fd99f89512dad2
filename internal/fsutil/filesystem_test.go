package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_CreateTruncates(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "points.txt")

	if err := fsys.WriteFile(path, []byte("a much longer previous run\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("1 2\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "1 2\n" {
		t.Errorf("expected truncated content, got %q", data)
	}
}

func TestEnsureParent(t *testing.T) {
	dir := t.TempDir()
	fsys := OSFileSystem{}

	target := filepath.Join(dir, "a", "b", "points.txt")
	if err := EnsureParent(fsys, target); err != nil {
		t.Fatalf("EnsureParent failed: %v", err)
	}
	if info, err := os.Stat(filepath.Join(dir, "a", "b")); err != nil || !info.IsDir() {
		t.Fatalf("expected parent directory to exist, err=%v", err)
	}

	// Bare file names need no directory.
	mfs := NewMemoryFileSystem()
	if err := EnsureParent(mfs, "points.txt"); err != nil {
		t.Fatalf("EnsureParent on bare name failed: %v", err)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("0.5 1.25\n")
	if err := mfs.WriteFile("/out/points.txt", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Callers mutating their buffer must not change the stored file.
	testData[0] = 'X'

	data, err := mfs.ReadFile("/out/points.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "0.5 1.25\n" {
		t.Errorf("expected %q, got %q", "0.5 1.25\n", data)
	}
}

func TestMemoryFileSystem_CreateCommitsOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/plot.html")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("<html>")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := mfs.ReadFile("/plot.html")
	if len(data) != 0 {
		t.Errorf("expected empty file before Close, got %q", data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err = mfs.ReadFile("/plot.html")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "<html>" {
		t.Errorf("expected '<html>', got %q", data)
	}
}

func TestMemoryFileSystem_FailOn(t *testing.T) {
	mfs := NewMemoryFileSystem()
	boom := errors.New("disk full")
	mfs.FailOn("/ro/points.txt", boom)

	err := mfs.WriteFile("/ro/../ro/points.txt", []byte("x"), 0644)
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFile error = %v, want wrapping %v", err, boom)
	}
	var pe *fs.PathError
	if !errors.As(err, &pe) || pe.Path != "/ro/points.txt" {
		t.Errorf("expected PathError for cleaned path, got %v", err)
	}

	if _, err := mfs.Create("/ro/points.txt"); !errors.Is(err, boom) {
		t.Errorf("Create error = %v, want wrapping %v", err, boom)
	}
	if mfs.Exists("/ro/points.txt") {
		t.Error("failed write must not create the file")
	}
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mfs.Exists(dir) {
			t.Errorf("expected %s to exist", dir)
		}
	}
	if mfs.Exists("/a/file.txt") {
		t.Error("directories must not imply files")
	}
}

func TestMemoryFileSystem_Paths(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, p := range []string{"/z.txt", "/a.txt", "/m/n.txt"} {
		if err := mfs.WriteFile(p, nil, 0644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", p, err)
		}
	}

	got := mfs.Paths()
	want := []string{"/a.txt", "/m/n.txt", "/z.txt"}
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMemoryFileSystem_ReadNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if _, err := mfs.ReadFile("/missing.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
