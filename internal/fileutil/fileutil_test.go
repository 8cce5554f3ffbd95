package fileutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Fatalf("hash = %s, want %s", got, want)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still exists after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content = %q", got)
	}
}

func TestReservePath(t *testing.T) {
	dir := t.TempDir()

	first, err := ReservePath(dir, "cat", ".jpg")
	if err != nil {
		t.Fatalf("ReservePath: %v", err)
	}
	if first != filepath.Join(dir, "cat.jpg") {
		t.Fatalf("first = %q", first)
	}
	if _, err := os.Stat(first); err != nil {
		t.Fatalf("reservation not on disk: %v", err)
	}

	second, err := ReservePath(dir, "cat", ".jpg")
	if err != nil {
		t.Fatalf("ReservePath: %v", err)
	}
	if second != filepath.Join(dir, "cat_1.jpg") {
		t.Fatalf("second = %q", second)
	}

	third, err := ReservePath(dir, "cat", ".jpg")
	if err != nil {
		t.Fatalf("ReservePath: %v", err)
	}
	if third != filepath.Join(dir, "cat_2.jpg") {
		t.Fatalf("third = %q", third)
	}
}

func TestReservePathConcurrentSameBase(t *testing.T) {
	dir := t.TempDir()

	const goroutines = 8
	paths := make(chan string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path, err := ReservePath(dir, "cat", ".jpg")
			if err != nil {
				t.Errorf("ReservePath: %v", err)
				return
			}
			paths <- path
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool)
	for path := range paths {
		if seen[path] {
			t.Fatalf("path %q reserved twice", path)
		}
		seen[path] = true
	}
	if len(seen) != goroutines {
		t.Fatalf("reserved %d distinct paths, want %d", len(seen), goroutines)
	}
}

func TestHashBytes(t *testing.T) {
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := HashBytes([]byte("hello")); got != want {
		t.Fatalf("hash = %s, want %s", got, want)
	}
}

func TestEnsureDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(target); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
