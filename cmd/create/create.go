// Package create implements the create subcommand: adding a new file
// or sub-directory to an existing image.
package create

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Create invocation.
type Options struct {
	Image       string // path to the disk image
	Path        string // absolute path of the new entry
	Dir         bool   // create a sub-directory instead of a file
	InitialSize int    // requested byte size (ignored when Dir)
	Quiet       bool   // suppress non-error output
}

// DefaultOptions returns default options for Create.
func DefaultOptions() *Options {
	return &Options{
		InitialSize: 0,
		Quiet:       false,
	}
}

// Create opens the image named by opts.Image, creates opts.Path on
// it, and saves the image back.
func Create(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, dev, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	if err := fs.Create(opts.Path, opts.InitialSize, opts.Dir); err != nil {
		return fmt.Errorf("creating %q: %w", opts.Path, err)
	}

	if err := imagefile.Save(opts.Image, dev); err != nil {
		return err
	}

	if !opts.Quiet {
		kind := "file"
		if opts.Dir {
			kind = "directory"
		}
		fmt.Printf("created %s %s\n", kind, opts.Path)
	}
	return nil
}
