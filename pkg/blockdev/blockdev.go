// Package blockdev implements the synchronous, sector-granular block
// device the rest of nanofs builds on: a fixed-size array of sectors,
// numbered 0..NumSectors-1, read and written one sector at a time.
package blockdev

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidSector is returned when a sector number falls outside
// [0, NumSectors).
var ErrInvalidSector = errors.New("blockdev: invalid sector number")

// Device is an in-memory synchronous block device. There is no
// caching above it and no concurrent access; every operation runs to
// completion before the next begins.
type Device struct {
	sectorSize int
	sectors    [][]byte
}

// New allocates a zeroed device of numSectors sectors, each sectorSize
// bytes.
func New(sectorSize, numSectors int) *Device {
	sectors := make([][]byte, numSectors)
	for i := range sectors {
		sectors[i] = make([]byte, sectorSize)
	}
	return &Device{sectorSize: sectorSize, sectors: sectors}
}

// SectorSize returns the fixed size of every sector on this device.
func (d *Device) SectorSize() int { return d.sectorSize }

// NumSectors returns the total number of sectors on this device.
func (d *Device) NumSectors() int { return len(d.sectors) }

func (d *Device) bounds(sector int) error {
	if sector < 0 || sector >= len(d.sectors) {
		return fmt.Errorf("%w: %d (have %d sectors)", ErrInvalidSector, sector, len(d.sectors))
	}
	return nil
}

// ReadSector copies the contents of sector into buf, which must be
// exactly SectorSize bytes. Out-of-range sector is unrecoverable for
// the caller.
func (d *Device) ReadSector(sector int, buf []byte) error {
	if err := d.bounds(sector); err != nil {
		return err
	}
	if len(buf) != d.sectorSize {
		return fmt.Errorf("blockdev: buffer must be %d bytes, got %d", d.sectorSize, len(buf))
	}
	copy(buf, d.sectors[sector])
	return nil
}

// WriteSector writes buf (exactly SectorSize bytes) to sector.
func (d *Device) WriteSector(sector int, buf []byte) error {
	if err := d.bounds(sector); err != nil {
		return err
	}
	if len(buf) != d.sectorSize {
		return fmt.Errorf("blockdev: buffer must be %d bytes, got %d", d.sectorSize, len(buf))
	}
	copy(d.sectors[sector], buf)
	return nil
}

// Save writes the whole device image to w, sector by sector, for
// persisting a disk image to the host filesystem.
func (d *Device) Save(w io.Writer) error {
	for _, s := range d.sectors {
		if _, err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a previously Saved image of the same geometry from r.
func Load(r io.Reader, sectorSize, numSectors int) (*Device, error) {
	d := New(sectorSize, numSectors)
	for i := range d.sectors {
		if _, err := io.ReadFull(r, d.sectors[i]); err != nil {
			return nil, fmt.Errorf("blockdev: loading sector %d: %w", i, err)
		}
	}
	return d, nil
}
