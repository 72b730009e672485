// Package ls implements the ls subcommand: listing a directory's
// contents.
package ls

import (
	"fmt"
	"io"
	"os"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a List invocation.
type Options struct {
	Image     string
	Path      string // "" or "/" lists the root
	Recursive bool
}

// DefaultOptions returns default options for List.
func DefaultOptions() *Options {
	return &Options{Path: "/"}
}

// List writes opts.Path's directory listing to w.
func List(opts *Options, w io.Writer) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, _, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	if err := fs.List(w, opts.Recursive, opts.Path); err != nil {
		return fmt.Errorf("listing %q: %w", opts.Path, err)
	}
	return nil
}

// ListToStdout is the convenience entry point cmd/main.go binds.
func ListToStdout(opts *Options) error {
	return List(opts, os.Stdout)
}
