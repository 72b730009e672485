// Package openfile implements the open-file handle: an in-memory
// cursor over one inode chain providing byte-level read/write, the
// consumer of the inodes pkg/inode produces.
package openfile

import (
	"errors"
	"io"
)

// ErrReadOnly is returned by Write/WriteAt against a read-only handle.
var ErrReadOnly = errors.New("openfile: file is read-only")

// ErrGrowthNotSupported is returned when a write would extend the
// file past its length at creation time — nanofs files have a fixed
// size set at Create and never grow afterward.
var ErrGrowthNotSupported = errors.New("openfile: cannot grow file past its created size")

// Header is the narrow interface the handle needs of an inode chain.
type Header interface {
	FileLength() int
	ByteToSector(offset int) (int, error)
}

// Device is the narrow block device interface the handle needs.
type Device interface {
	SectorSize() int
	ReadSector(sector int, buf []byte) error
	WriteSector(sector int, buf []byte) error
}

// File is a byte-level cursor over one inode chain. Its lifetime is
// bounded by Open/Close at the facade.
type File struct {
	dev      Device
	hdr      Header
	position int64
	readOnly bool
}

// New wraps hdr (already fetched or freshly allocated) as an open
// handle over dev.
func New(dev Device, hdr Header, readOnly bool) *File {
	return &File{dev: dev, hdr: hdr, readOnly: readOnly}
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.position)
	f.position += int64(n)
	return n, err
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	length := int64(f.hdr.FileLength())
	if off >= length {
		return 0, io.EOF
	}

	toRead := len(p)
	if int64(toRead) > length-off {
		toRead = int(length - off)
	}

	sectorSize := int64(f.dev.SectorSize())
	read := 0
	buf := make([]byte, sectorSize)
	for read < toRead {
		cur := off + int64(read)
		sector, err := f.hdr.ByteToSector(int(cur))
		if err != nil {
			return read, err
		}
		if err := f.dev.ReadSector(sector, buf); err != nil {
			return read, err
		}

		sectorOff := int(cur % sectorSize)
		n := copy(p[read:toRead], buf[sectorOff:])
		read += n
	}

	var err error
	if read < len(p) {
		err = io.EOF
	}
	return read, err
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, f.position)
	f.position += int64(n)
	return n, err
}

// WriteAt implements io.WriterAt. Files never grow past the size
// fixed at creation, so a write extending past FileLength() fails.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if f.readOnly {
		return 0, ErrReadOnly
	}
	length := int64(f.hdr.FileLength())
	if off+int64(len(p)) > length {
		return 0, ErrGrowthNotSupported
	}

	sectorSize := int64(f.dev.SectorSize())
	written := 0
	buf := make([]byte, sectorSize)
	for written < len(p) {
		cur := off + int64(written)
		sector, err := f.hdr.ByteToSector(int(cur))
		if err != nil {
			return written, err
		}
		if err := f.dev.ReadSector(sector, buf); err != nil {
			return written, err
		}

		sectorOff := int(cur % sectorSize)
		n := copy(buf[sectorOff:], p[written:])
		if err := f.dev.WriteSector(sector, buf); err != nil {
			return written, err
		}
		written += n
	}

	return written, nil
}

// Seek implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.position + offset
	case io.SeekEnd:
		abs = int64(f.hdr.FileLength()) + offset
	default:
		return 0, errors.New("openfile: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("openfile: negative position")
	}
	f.position = abs
	return abs, nil
}

// Close releases the handle. nanofs keeps no in-memory state beyond
// the chain itself, so Close is a no-op beyond satisfying io.Closer.
func (f *File) Close() error { return nil }

// Length returns the length of the underlying inode chain.
func (f *File) Length() int { return f.hdr.FileLength() }
