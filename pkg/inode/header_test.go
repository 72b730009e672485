package inode

import (
	"testing"

	"github.com/nanofs/nanofs/pkg/bitmap"
	"github.com/nanofs/nanofs/pkg/blockdev"
)

const testSectorSize = 128

func newTestDev(numSectors int) *blockdev.Device {
	return blockdev.New(testSectorSize, numSectors)
}

func TestAllocateWithinOneSegment(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	got := h.Allocate(bm, 100)
	if got == 0 {
		t.Fatalf("Allocate(100) failed")
	}
	if h.FileLength() != 100 {
		t.Errorf("FileLength = %d, want 100", h.FileLength())
	}
	if h.NumSectors() != 1 {
		t.Errorf("NumSectors = %d, want 1", h.NumSectors())
	}
	if h.NextHeaderSector() != None {
		t.Errorf("expected no successor for a 100-byte file")
	}
}

func TestAllocateExactlyMaxFileSizeDoesNotChain(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	max := h.MaxSegmentSize()
	if got := h.Allocate(bm, max); got == 0 {
		t.Fatalf("Allocate(MaxFileSize) failed")
	}
	if h.NextHeaderSector() != None {
		t.Errorf("file of exactly MaxFileSize must not chain")
	}
	if h.FileLength() != max {
		t.Errorf("FileLength = %d, want %d", h.FileLength(), max)
	}
}

func TestAllocateOneByteOverMaxFileSizeChainsOnce(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	max := h.MaxSegmentSize()
	if got := h.Allocate(bm, max+1); got == 0 {
		t.Fatalf("Allocate(MaxFileSize+1) failed")
	}
	if h.NextHeaderSector() == None {
		t.Fatalf("file of MaxFileSize+1 must chain")
	}
	if h.succ.NextHeaderSector() != None {
		t.Errorf("second segment must be terminal")
	}
	if h.FileLength() != max+1 {
		t.Errorf("FileLength = %d, want %d", h.FileLength(), max+1)
	}
}

func TestAllocateEmptyFile(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	if got := h.Allocate(bm, 0); got == 0 {
		t.Fatalf("Allocate(0) failed")
	}
	if h.NumSectors() != 0 {
		t.Errorf("NumSectors = %d, want 0", h.NumSectors())
	}
	if h.NextHeaderSector() != None {
		t.Errorf("empty file must not chain")
	}
}

func TestAllocateFailsWhenBitmapExhausted(t *testing.T) {
	dev := newTestDev(4)
	bm := bitmap.New(4)
	// Exhaust every sector up front.
	for bm.FindAndSet() != -1 {
	}

	h := New(dev)
	if got := h.Allocate(bm, 10); got != 0 {
		t.Errorf("Allocate on exhausted bitmap returned %d, want 0", got)
	}
}

func TestWriteBackFetchFromRoundTrip(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	max := h.MaxSegmentSize()
	if got := h.Allocate(bm, max+500); got == 0 {
		t.Fatalf("Allocate failed")
	}

	headerSector := bm.FindAndSet()
	if err := h.WriteBack(headerSector); err != nil {
		t.Fatalf("WriteBack: %v", err)
	}

	got := New(dev)
	if err := got.FetchFrom(headerSector); err != nil {
		t.Fatalf("FetchFrom: %v", err)
	}

	if got.FileLength() != h.FileLength() {
		t.Errorf("FileLength after round trip = %d, want %d", got.FileLength(), h.FileLength())
	}
	if got.NumSectors() != h.NumSectors() {
		t.Errorf("NumSectors after round trip = %d, want %d", got.NumSectors(), h.NumSectors())
	}
	for i, want := range h.DataSectors() {
		if got.DataSectors()[i] != want {
			t.Errorf("dataSectors[%d] = %d, want %d", i, got.DataSectors()[i], want)
		}
	}
}

func TestByteToSectorCrossesChain(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	h := New(dev)
	max := h.MaxSegmentSize()
	if got := h.Allocate(bm, max+10); got == 0 {
		t.Fatalf("Allocate failed")
	}

	firstSector, err := h.ByteToSector(0)
	if err != nil || firstSector != h.DataSectors()[0] {
		t.Errorf("ByteToSector(0) = %d, %v; want %d, nil", firstSector, err, h.DataSectors()[0])
	}

	secondSegSector, err := h.ByteToSector(max)
	if err != nil {
		t.Fatalf("ByteToSector(max): %v", err)
	}
	if secondSegSector != h.succ.DataSectors()[0] {
		t.Errorf("ByteToSector(max) = %d, want %d", secondSegSector, h.succ.DataSectors()[0])
	}
}

func TestDeallocateRestoresFreeCount(t *testing.T) {
	dev := newTestDev(64)
	bm := bitmap.New(64)

	before := bm.NumClear()

	h := New(dev)
	max := h.MaxSegmentSize()
	if got := h.Allocate(bm, max+200); got == 0 {
		t.Fatalf("Allocate failed")
	}
	if err := h.Deallocate(bm); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}

	// Deallocate only releases data sectors and successor header
	// sectors, not the head header's own sector (caller-owned), so
	// NumClear returns to its pre-allocate value.
	if got := bm.NumClear(); got != before {
		t.Errorf("NumClear after deallocate = %d, want %d", got, before)
	}
}
