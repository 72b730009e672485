// Package fsck implements the fsck subcommand: verifying an image's
// bitmap, inode and directory tree are mutually consistent.
package fsck

import (
	"fmt"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures an Fsck invocation.
type Options struct {
	Image string
	Quiet bool
}

// DefaultOptions returns default options for Fsck.
func DefaultOptions() *Options {
	return &Options{}
}

// Check verifies opts.Image and returns its consistency error, if
// any.
func Check(opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, _, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	if err := fs.Fsck(); err != nil {
		return fmt.Errorf("%s: %w", opts.Image, err)
	}

	if !opts.Quiet {
		fmt.Printf("%s: consistent\n", opts.Image)
	}
	return nil
}
