package directory

import (
	"fmt"
	"io"
	"strings"
)

// SubdirOpener loads the Directory stored in the file whose first
// inode sector is sector. The facade supplies this (it owns the
// device, bitmap and inode machinery needed to open a file by sector);
// Directory itself stays decoupled from them.
type SubdirOpener func(sector int) (*Directory, error)

// List writes one line per in-use entry to w, indented by indent
// levels. When recursive and an entry is a sub-directory, its contents
// are fetched via open and listed beneath it at indent+1.
func (d *Directory) List(w io.Writer, indent int, recursive bool, open SubdirOpener) error {
	prefix := strings.Repeat("  ", indent)
	for _, e := range d.Entries() {
		kind := "f"
		if e.IsDir {
			kind = "d"
		}
		fmt.Fprintf(w, "%s%s %s\n", prefix, kind, e.Name)
		if recursive && e.IsDir {
			sub, err := open(e.Sector)
			if err != nil {
				return fmt.Errorf("directory: list %q: %w", e.Name, err)
			}
			if err := sub.List(w, indent+1, recursive, open); err != nil {
				return err
			}
		}
	}
	return nil
}
