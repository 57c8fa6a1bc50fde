package imagefile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ptri/go-camerautils/pkg/camera"
)

func TestScanImagesRecursive(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "b.png"), 4, 4, 0)
	writePNG(t, filepath.Join(root, "a.png"), 4, 4, 1)
	writePNG(t, filepath.Join(root, "sub", "c.png"), 4, 4, 2)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("recursive includes subdirectories", func(t *testing.T) {
		files, err := scanImages(root, true)
		if err != nil {
			t.Fatalf("scanImages() error = %v", err)
		}
		want := []string{
			filepath.Join(root, "a.png"),
			filepath.Join(root, "b.png"),
			filepath.Join(root, "sub", "c.png"),
		}
		if !reflect.DeepEqual(files, want) {
			t.Errorf("files = %v, want %v", files, want)
		}
	})

	t.Run("non-recursive excludes subdirectories", func(t *testing.T) {
		files, err := scanImages(root, false)
		if err != nil {
			t.Fatalf("scanImages() error = %v", err)
		}
		want := []string{
			filepath.Join(root, "a.png"),
			filepath.Join(root, "b.png"),
		}
		if !reflect.DeepEqual(files, want) {
			t.Errorf("files = %v, want %v", files, want)
		}
	})

	t.Run("order is stable across runs", func(t *testing.T) {
		first, err := scanImages(root, true)
		if err != nil {
			t.Fatal(err)
		}
		second, err := scanImages(root, true)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("ordering not deterministic: %v vs %v", first, second)
		}
	})
}

func TestScanImagesEmpty(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := scanImages(root, true)
	var noImages *camera.NoImagesFoundError
	if !errors.As(err, &noImages) {
		t.Fatalf("error = %v, want NoImagesFoundError", err)
	}
	if noImages.Root != root {
		t.Errorf("Root = %q, want %q", noImages.Root, root)
	}
}

func TestScanImagesMissingRoot(t *testing.T) {
	if _, err := scanImages(filepath.Join(t.TempDir(), "nope"), true); err == nil {
		t.Error("scanImages should fail on a missing directory")
	}
}
