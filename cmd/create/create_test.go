package create

import (
	"path/filepath"
	"testing"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

func TestCreateFileThenAlreadyExists(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "test.img")
	if _, _, err := imagefile.Create(imgPath, nanofs.DefaultConfig()); err != nil {
		t.Fatalf("imagefile.Create: %v", err)
	}

	opts := &Options{Image: imgPath, Path: "/a", InitialSize: 10, Quiet: true}
	if err := Create(opts); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Create(opts); err == nil {
		t.Fatalf("Create on existing path did not fail")
	}
}

func TestCreateDirectory(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "test.img")
	if _, _, err := imagefile.Create(imgPath, nanofs.DefaultConfig()); err != nil {
		t.Fatalf("imagefile.Create: %v", err)
	}

	opts := &Options{Image: imgPath, Path: "/sub", Dir: true, Quiet: true}
	if err := Create(opts); err != nil {
		t.Fatalf("Create directory: %v", err)
	}

	nested := &Options{Image: imgPath, Path: "/sub/b", InitialSize: 5, Quiet: true}
	if err := Create(nested); err != nil {
		t.Fatalf("Create nested file: %v", err)
	}
}
