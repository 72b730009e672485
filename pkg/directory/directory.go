// Package directory implements the fixed-capacity name table: a
// directory is itself stored as a regular file, holding a bounded
// array of {inUse, isDir, sector, name} entries.
package directory

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nanofs/nanofs/internal/layout"
)

// ErrNameTooLong is returned when a name exceeds the entry's name
// capacity.
var ErrNameTooLong = errors.New("directory: name too long")

// File is the narrow interface the directory needs of an open file.
type File interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

// Entry is one directory record.
type Entry struct {
	InUse  bool
	IsDir  bool
	Sector int
	Name   string
}

// Directory is a sealed capacity table of entries.
type Directory struct {
	entries []Entry
}

// New returns an empty directory with the given fixed capacity.
func New(capacity int) *Directory {
	return &Directory{entries: make([]Entry, capacity)}
}

// Capacity returns the fixed number of entry slots.
func (d *Directory) Capacity() int { return len(d.entries) }

// Find returns the inode sector of name, or -1 if not present.
func (d *Directory) Find(name string) int {
	for _, e := range d.entries {
		if e.InUse && e.Name == name {
			return e.Sector
		}
	}
	return -1
}

// IsDir reports whether name names a sub-directory entry.
func (d *Directory) IsDir(name string) bool {
	for _, e := range d.entries {
		if e.InUse && e.Name == name {
			return e.IsDir
		}
	}
	return false
}

// Add inserts {name, sector, isDir} into the first free slot. Returns
// false when the directory is full or name is already present.
func (d *Directory) Add(name string, sector int, isDir bool) (bool, error) {
	if len(name) > layout.DirEntryNameLen {
		return false, fmt.Errorf("%w: %q (max %d bytes)", ErrNameTooLong, name, layout.DirEntryNameLen)
	}
	if d.Find(name) != -1 {
		return false, nil
	}
	for i := range d.entries {
		if !d.entries[i].InUse {
			d.entries[i] = Entry{InUse: true, IsDir: isDir, Sector: sector, Name: name}
			return true, nil
		}
	}
	return false, nil
}

// Remove clears the inUse flag on the entry matching name. Returns
// false when name is not present.
func (d *Directory) Remove(name string) bool {
	for i := range d.entries {
		if d.entries[i].InUse && d.entries[i].Name == name {
			d.entries[i] = Entry{}
			return true
		}
	}
	return false
}

// Entries returns the in-use entries, in slot order (the order List
// and recursive Remove iterate in).
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if e.InUse {
			out = append(out, e)
		}
	}
	return out
}

// FetchFrom decodes the entry array from the body of an already open
// file.
func (d *Directory) FetchFrom(f File) error {
	buf := make([]byte, len(d.entries)*layout.DirEntrySize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("directory: fetch: %w", err)
	}
	r := bytes.NewReader(buf)
	for i := range d.entries {
		e, err := decodeEntry(r)
		if err != nil {
			return fmt.Errorf("directory: decode entry %d: %w", i, err)
		}
		d.entries[i] = e
	}
	return nil
}

// WriteBack encodes the entry array and writes it to the body of an
// already open file.
func (d *Directory) WriteBack(f File) error {
	buf := new(bytes.Buffer)
	for i, e := range d.entries {
		if err := encodeEntry(buf, e); err != nil {
			return fmt.Errorf("directory: encode entry %d: %w", i, err)
		}
	}
	if _, err := f.WriteAt(buf.Bytes(), 0); err != nil {
		return fmt.Errorf("directory: write back: %w", err)
	}
	return nil
}

func encodeEntry(w io.Writer, e Entry) error {
	var inUse, isDir byte
	if e.InUse {
		inUse = 1
	}
	if e.IsDir {
		isDir = 1
	}
	if err := binary.Write(w, binary.LittleEndian, inUse); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, isDir); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(e.Sector)); err != nil {
		return err
	}
	var name [layout.DirEntryNameLen]byte
	copy(name[:], e.Name)
	_, err := w.Write(name[:])
	return err
}

func decodeEntry(r io.Reader) (Entry, error) {
	var inUse, isDir byte
	var sector int32
	var name [layout.DirEntryNameLen]byte

	if err := binary.Read(r, binary.LittleEndian, &inUse); err != nil {
		return Entry{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &isDir); err != nil {
		return Entry{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &sector); err != nil {
		return Entry{}, err
	}
	if _, err := io.ReadFull(r, name[:]); err != nil {
		return Entry{}, err
	}

	n := bytes.IndexByte(name[:], 0)
	if n == -1 {
		n = len(name)
	}
	return Entry{
		InUse:  inUse != 0,
		IsDir:  isDir != 0,
		Sector: int(sector),
		Name:   string(name[:n]),
	}, nil
}
