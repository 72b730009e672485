// Package inode implements the file header (inode) chain: a
// sector-sized record mapping a file's byte offsets to data sectors,
// chained through successor headers once a file outgrows a single
// header's direct table.
package inode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nanofs/nanofs/internal/layout"
)

// None is the sentinel sector address meaning "no sector".
const None = -1

// Bitmap is the narrow allocator interface a Header needs.
type Bitmap interface {
	FindAndSet() int
	NumClear() int
	Clear(sector int) error
}

// Device is the narrow block device interface a Header needs.
type Device interface {
	SectorSize() int
	ReadSector(sector int, buf []byte) error
	WriteSector(sector int, buf []byte) error
}

// Header is one segment of a file's inode chain.
type Header struct {
	dev        Device
	numDirect  int
	maxSize    int
	numBytes   int
	numSectors int
	next       int // nextHeaderSector, or None
	dataSectors []int
	succ       *Header // set by Allocate, or by FetchFrom, which loads the whole chain
}

// New returns an empty header bound to dev, with NumDirect computed
// from dev's sector size.
func New(dev Device) *Header {
	numDirect := layout.NumDirectForSectorSize(dev.SectorSize())
	return &Header{
		dev:         dev,
		numDirect:   numDirect,
		maxSize:     layout.MaxFileSize(dev.SectorSize(), numDirect),
		next:        None,
		dataSectors: newEmptySectorTable(numDirect),
	}
}

func newEmptySectorTable(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = None
	}
	return s
}

// Allocate clamps this segment's numBytes to min(requestedBytes,
// MaxFileSize), allocates its data sectors (and, if requestedBytes
// exceeds MaxFileSize, a successor segment) from bitmap, and returns
// the total number of header-sectors'-worth of bytes consumed, or 0
// on failure. Allocation failure cascades across segments: a later
// segment's FindAndSet can fail after earlier segments already
// claimed sectors from bm. On a 0 return the caller must restore bm to
// its state from before the call rather than persist it (see package
// nanofs, which snapshots bm before calling Allocate for this reason).
func (h *Header) Allocate(bm Bitmap, requestedBytes int) int {
	if requestedBytes > h.maxSize {
		h.numBytes = h.maxSize
	} else {
		h.numBytes = requestedBytes
	}
	h.numSectors = layout.CeilDiv(h.numBytes, h.dev.SectorSize())

	if bm.NumClear() < h.numSectors {
		return 0
	}

	clean := make([]byte, h.dev.SectorSize())
	for i := 0; i < h.numSectors; i++ {
		s := bm.FindAndSet()
		if s < 0 {
			return 0
		}
		h.dataSectors[i] = s
		if err := h.dev.WriteSector(s, clean); err != nil {
			return 0
		}
	}

	remaining := requestedBytes - h.maxSize
	if remaining > 0 {
		next := bm.FindAndSet()
		if next < 0 {
			return 0
		}
		h.next = next
		h.succ = New(h.dev)
		succTotal := h.succ.Allocate(bm, remaining)
		if succTotal == 0 {
			return 0
		}
		return h.dev.SectorSize() + succTotal
	}

	return h.dev.SectorSize()
}

// Deallocate clears every data sector of this segment, then
// recursively deallocates the successor (including its own header
// sector). The caller is responsible for clearing this header's own
// sector — it is owned by the directory entry, not by the inode.
func (h *Header) Deallocate(bm Bitmap) error {
	for i := 0; i < h.numSectors; i++ {
		if err := bm.Clear(h.dataSectors[i]); err != nil {
			return err
		}
	}
	if h.next != None {
		if h.succ == nil {
			h.succ = New(h.dev)
			if err := h.succ.FetchFrom(h.next); err != nil {
				return err
			}
		}
		if err := h.succ.Deallocate(bm); err != nil {
			return err
		}
		if err := bm.Clear(h.next); err != nil {
			return err
		}
	}
	return nil
}

// FetchFrom reads this header (and, recursively, its successor chain)
// from sector.
func (h *Header) FetchFrom(sector int) error {
	buf := make([]byte, h.dev.SectorSize())
	if err := h.dev.ReadSector(sector, buf); err != nil {
		return fmt.Errorf("inode: fetch sector %d: %w", sector, err)
	}

	r := bytes.NewReader(buf)
	var numBytes, numSectors, next int32
	for _, v := range []*int32{&numBytes, &numSectors, &next} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("inode: decode header: %w", err)
		}
	}
	h.numBytes = int(numBytes)
	h.numSectors = int(numSectors)
	h.next = int(next)

	h.dataSectors = newEmptySectorTable(h.numDirect)
	for i := 0; i < h.numDirect; i++ {
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return fmt.Errorf("inode: decode dataSectors[%d]: %w", i, err)
		}
		h.dataSectors[i] = int(v)
	}

	if h.next != None {
		h.succ = New(h.dev)
		if err := h.succ.FetchFrom(h.next); err != nil {
			return err
		}
	} else {
		h.succ = nil
	}
	return nil
}

// WriteBack encodes this header (and, recursively, its successor
// chain) and writes it to sector.
func (h *Header) WriteBack(sector int) error {
	buf := new(bytes.Buffer)
	for _, v := range []int32{int32(h.numBytes), int32(h.numSectors), int32(h.next)} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("inode: encode header: %w", err)
		}
	}
	for i := 0; i < h.numDirect; i++ {
		if err := binary.Write(buf, binary.LittleEndian, int32(h.dataSectors[i])); err != nil {
			return fmt.Errorf("inode: encode dataSectors[%d]: %w", i, err)
		}
	}

	out := make([]byte, h.dev.SectorSize())
	if buf.Len() > len(out) {
		return errors.New("inode: header encoding exceeds sector size")
	}
	copy(out, buf.Bytes())

	if err := h.dev.WriteSector(sector, out); err != nil {
		return fmt.Errorf("inode: write sector %d: %w", sector, err)
	}

	if h.next != None && h.succ != nil {
		return h.succ.WriteBack(h.next)
	}
	return nil
}

// ByteToSector translates a byte offset into the file into the disk
// sector storing it. Undefined for offsets >= FileLength().
func (h *Header) ByteToSector(offset int) (int, error) {
	sector := offset / h.dev.SectorSize()
	if sector < h.numDirect {
		return h.dataSectors[sector], nil
	}
	if h.succ == nil {
		return None, errors.New("inode: offset beyond chain with no successor loaded")
	}
	return h.succ.ByteToSector(offset - h.maxSize)
}

// FileLength returns the sum of segment numBytes along the chain.
func (h *Header) FileLength() int {
	total := h.numBytes
	if h.succ != nil {
		total += h.succ.FileLength()
	}
	return total
}

// NumSectors returns the number of data sectors in this segment alone.
func (h *Header) NumSectors() int { return h.numSectors }

// NumDirect returns the direct-pointer capacity of one header segment.
func (h *Header) NumDirect() int { return h.numDirect }

// MaxSegmentSize returns MaxFileSize for this header's device geometry.
func (h *Header) MaxSegmentSize() int { return h.maxSize }

// DataSectors returns a copy of this segment's direct sector table
// (unused slots are None), for diagnostics (Fsck, Print).
func (h *Header) DataSectors() []int {
	out := make([]int, len(h.dataSectors))
	copy(out, h.dataSectors)
	return out
}

// NextHeaderSector returns the successor's sector, or None at the
// terminal segment.
func (h *Header) NextHeaderSector() int { return h.next }
