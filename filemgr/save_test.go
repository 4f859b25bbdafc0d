package filemgr

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestEnsureSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		ext  string
		want string
	}{
		{"My Photo.JPG", ".jpg", "my_photo.jpg"},
		{"../../etc/passwd", ".png", "etcpasswd.png"},
		{"shot(1).png", ".png", "shot1.png"},
	}

	for _, c := range cases {
		if got := ensureSafeFilename(c.in, c.ext); got != c.want {
			t.Errorf("ensureSafeFilename(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestIsExtensionAllowed(t *testing.T) {
	if !isExtensionAllowed(".png", PicPhoto) {
		t.Fatal(".png should be allowed for photos")
	}
	if isExtensionAllowed(".exe", PicPhoto) {
		t.Fatal(".exe must not be allowed for photos")
	}
	if isExtensionAllowed(".png", PicThumb) {
		t.Fatal("thumbs are always jpg")
	}
}

func TestSaveFileWithinLimit(t *testing.T) {
	dir := t.TempDir()
	payload := append(append([]byte{}, pngSignature...), bytes.Repeat([]byte{0}, 100)...)
	header := &multipart.FileHeader{Filename: "cover.png"}

	name, err := SaveFile(bytes.NewReader(payload), header, dir, 10<<20, PicPhoto)
	if err != nil {
		t.Fatalf("expected save to succeed: %v", err)
	}
	if filepath.Ext(name) != ".png" {
		t.Fatalf("expected .png name, got %q", name)
	}

	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if info.Size() != int64(len(payload)) {
		t.Fatalf("expected %d bytes on disk, got %d", len(payload), info.Size())
	}
}

func TestSaveFileRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	payload := append(append([]byte{}, pngSignature...), bytes.Repeat([]byte{0}, 600)...)
	header := &multipart.FileHeader{Filename: "big.png"}

	_, err := SaveFile(bytes.NewReader(payload), header, dir, 100, PicPhoto)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	// The partial write must not be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after rejection, found %d", len(entries))
	}
}

func TestResolvePath(t *testing.T) {
	want := filepath.Join("static", "uploads", "product", "photo")
	if got := ResolvePath(EntityProduct, PicPhoto); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
