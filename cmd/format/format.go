// Package format implements the format subcommand: laying down a
// fresh bitmap and root directory on a new image.
package format

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Format invocation.
type Options struct {
	Image         string // path to write the new image to
	SectorSize    int
	NumSectors    int
	NumDirEntries int
	MaxFileNum    int
	Quiet         bool
}

// DefaultOptions returns DefaultConfig's geometry as Options.
func DefaultOptions() *Options {
	cfg := nanofs.DefaultConfig()
	return &Options{
		SectorSize:    cfg.SectorSize,
		NumSectors:    cfg.NumSectors,
		NumDirEntries: cfg.NumDirEntries,
		MaxFileNum:    cfg.MaxFileNum,
	}
}

func (o *Options) config() nanofs.Config {
	return nanofs.Config{
		SectorSize:    o.SectorSize,
		NumSectors:    o.NumSectors,
		NumDirEntries: o.NumDirEntries,
		MaxFileNum:    o.MaxFileNum,
	}
}

// Format creates a fresh image at opts.Image.
func Format(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, _, err := imagefile.Create(opts.Image, opts.config()); err != nil {
		return fmt.Errorf("formatting %s: %w", opts.Image, err)
	}

	if !opts.Quiet {
		fmt.Printf("formatted %s (%d sectors of %d bytes)\n", opts.Image, opts.NumSectors, opts.SectorSize)
	}
	return nil
}
