// Command nanofs is the CLI front end over pkg/nanofs: a thin cobra
// command tree whose subcommands each bind pflag flags into one of
// the per-operation Options structs and call straight into the
// corresponding cmd/<verb> package.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/cmd/create"
	"github.com/nanofs/nanofs/cmd/format"
	"github.com/nanofs/nanofs/cmd/fsck"
	"github.com/nanofs/nanofs/cmd/ls"
	"github.com/nanofs/nanofs/cmd/open"
	"github.com/nanofs/nanofs/cmd/print"
	"github.com/nanofs/nanofs/cmd/read"
	"github.com/nanofs/nanofs/cmd/rm"
	"github.com/nanofs/nanofs/cmd/write"
)

// main builds and runs the root command. Errors are reported to
// stderr and translate into a non-zero exit status, the way a cobra
// entry point normally does.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nanofs",
		Short: "nanofs manages a small sector-addressed disk image",
	}

	root.AddCommand(
		newFormatCmd(),
		newCreateCmd(),
		newOpenCmd(),
		newWriteCmd(),
		newReadCmd(),
		newRmCmd(),
		newLsCmd(),
		newPrintCmd(),
		newFsckCmd(),
	)
	return root
}

func newFormatCmd() *cobra.Command {
	opts := format.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "format IMAGE",
		Short: "create a fresh image with an empty root directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image = args[0]
			return format.Format(opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.SectorSize, "sector-size", opts.SectorSize, "bytes per sector")
	flags.IntVar(&opts.NumSectors, "num-sectors", opts.NumSectors, "number of sectors on the device")
	flags.IntVar(&opts.NumDirEntries, "dir-entries", opts.NumDirEntries, "capacity of the root directory")
	flags.IntVar(&opts.MaxFileNum, "max-open", opts.MaxFileNum, "maximum simultaneously open files")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress non-error output")
	return cmd
}

func newCreateCmd() *cobra.Command {
	opts := create.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "create IMAGE PATH",
		Short: "create a new file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image, opts.Path = args[0], args[1]
			return create.Create(opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.Dir, "dir", opts.Dir, "create a sub-directory instead of a file")
	flags.IntVar(&opts.InitialSize, "size", opts.InitialSize, "initial byte size of the new file")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress non-error output")
	return cmd
}

func newOpenCmd() *cobra.Command {
	opts := open.DefaultOptions()
	return &cobra.Command{
		Use:   "open IMAGE PATH",
		Short: "resolve a path and report its descriptor id and length",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image, opts.Path = args[0], args[1]
			return open.Open(opts)
		},
	}
}

func newWriteCmd() *cobra.Command {
	opts := write.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "write IMAGE PATH DATA",
		Short: "write bytes into an existing file at an offset",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image, opts.Path = args[0], args[1]
			opts.Data = []byte(args[2])
			return write.Write(opts)
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&opts.Offset, "offset", opts.Offset, "byte offset to write at")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress non-error output")
	return cmd
}

func newReadCmd() *cobra.Command {
	opts := read.DefaultOptions()
	return &cobra.Command{
		Use:   "read IMAGE PATH",
		Short: "dump a file's contents to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image, opts.Path = args[0], args[1]
			return read.Read(opts, os.Stdout)
		},
	}
}

func newRmCmd() *cobra.Command {
	opts := rm.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "rm IMAGE PATH",
		Short: "remove a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image, opts.Path = args[0], args[1]
			return rm.Remove(opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.Recursive, "recursive", "r", opts.Recursive, "remove sub-entries of a non-empty directory first")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress non-error output")
	return cmd
}

func newLsCmd() *cobra.Command {
	opts := ls.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "ls IMAGE [PATH]",
		Short: "list a directory's contents",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image = args[0]
			if len(args) == 2 {
				opts.Path = args[1]
			}
			return ls.ListToStdout(opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", opts.Recursive, "descend into sub-directories")
	return cmd
}

func newPrintCmd() *cobra.Command {
	opts := print.DefaultOptions()
	return &cobra.Command{
		Use:   "print IMAGE",
		Short: "dump bitmap, directory and raw sector diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image = args[0]
			return print.PrintToStdout(opts)
		},
	}
}

func newFsckCmd() *cobra.Command {
	opts := fsck.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "fsck IMAGE",
		Short: "check bitmap, inode and directory consistency",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Image = args[0]
			return fsck.Check(opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress non-error output")
	return cmd
}
