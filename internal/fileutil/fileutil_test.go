package fileutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStreamFileRewindsBeforeCopy(t *testing.T) {
	dir := t.TempDir()
	src, err := os.Create(filepath.Join(dir, "src.bin"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	content := []byte("RIFF....WAVEfmt ")
	if _, err := src.Write(content); err != nil {
		t.Fatal(err)
	}

	var dst bytes.Buffer
	written, err := StreamFile(src, &dst)
	if err != nil {
		t.Fatal(err)
	}
	if written != int64(len(content)) {
		t.Fatalf("written mismatch: got %d, want %d", written, len(content))
	}
	if !bytes.Equal(dst.Bytes(), content) {
		t.Fatalf("content mismatch: got %q, want %q", dst.Bytes(), content)
	}
}

func TestStreamFileEmpty(t *testing.T) {
	src, err := os.Create(filepath.Join(t.TempDir(), "empty"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	written, err := StreamFile(src, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if written != 0 {
		t.Fatalf("expected 0 bytes, got %d", written)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestStreamFileWriteError(t *testing.T) {
	src, err := os.Create(filepath.Join(t.TempDir(), "src"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if _, err := src.WriteString("data"); err != nil {
		t.Fatal(err)
	}

	if _, err := StreamFile(src, failingWriter{}); err == nil {
		t.Fatal("expected error from failing writer")
	}
}
