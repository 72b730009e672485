// Package print implements the print subcommand: dumping bitmap,
// directory and raw sector diagnostics for an image.
package print

import (
	"io"
	"os"

	"github.com/nanofs/nanofs/cmd/imagefile"
	"github.com/nanofs/nanofs/pkg/nanofs"
)

// Options configures a Print invocation.
type Options struct {
	Image string
}

// DefaultOptions returns default options for Print.
func DefaultOptions() *Options {
	return &Options{}
}

// Print writes the diagnostic dump to w.
func Print(opts *Options, w io.Writer) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	fs, _, err := imagefile.Open(opts.Image, nanofs.DefaultConfig())
	if err != nil {
		return err
	}

	return fs.Print(w)
}

// PrintToStdout is the convenience entry point cmd/main.go binds.
func PrintToStdout(opts *Options) error {
	return Print(opts, os.Stdout)
}
