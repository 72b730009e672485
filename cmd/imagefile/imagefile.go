// Package imagefile loads and saves a nanofs disk image to a host
// file, the one piece of host-filesystem plumbing every cmd
// subcommand needs to turn a single invocation into a persistent
// device.
package imagefile

import (
	"fmt"
	"os"

	"github.com/nanofs/nanofs/pkg/blockdev"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Open loads an existing image from path under cfg's geometry and
// mounts it.
func Open(path string, cfg nanofs.Config) (*nanofs.FS, *blockdev.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	cfg = cfg.WithDefaults()
	dev, err := blockdev.Load(f, cfg.SectorSize, cfg.NumSectors)
	if err != nil {
		return nil, nil, fmt.Errorf("loading image %s: %w", path, err)
	}

	fs, err := nanofs.Mount(dev, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("mounting image %s: %w", path, err)
	}
	return fs, dev, nil
}

// Create formats a fresh image at path under cfg's geometry. It fails
// if a file already exists at path.
func Create(path string, cfg nanofs.Config) (*nanofs.FS, *blockdev.Device, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil, fmt.Errorf("image already exists: %s", path)
	}

	cfg = cfg.WithDefaults()
	dev := blockdev.New(cfg.SectorSize, cfg.NumSectors)
	fs, err := nanofs.Format(dev, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("formatting image: %w", err)
	}

	if err := Save(path, dev); err != nil {
		return nil, nil, err
	}
	return fs, dev, nil
}

// Save writes dev's contents back to path.
func Save(path string, dev *blockdev.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image %s: %w", path, err)
	}
	defer f.Close()

	if err := dev.Save(f); err != nil {
		return fmt.Errorf("saving image %s: %w", path, err)
	}
	return nil
}
