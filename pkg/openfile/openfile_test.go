package openfile

import (
	"bytes"
	"io"
	"testing"
)

type fakeDevice struct {
	sectorSize int
	sectors    [][]byte
}

func newFakeDevice(sectorSize, numSectors int) *fakeDevice {
	sectors := make([][]byte, numSectors)
	for i := range sectors {
		sectors[i] = make([]byte, sectorSize)
	}
	return &fakeDevice{sectorSize: sectorSize, sectors: sectors}
}

func (d *fakeDevice) SectorSize() int { return d.sectorSize }

func (d *fakeDevice) ReadSector(sector int, buf []byte) error {
	copy(buf, d.sectors[sector])
	return nil
}

func (d *fakeDevice) WriteSector(sector int, buf []byte) error {
	copy(d.sectors[sector], buf)
	return nil
}

// fakeHeader maps a flat byte range onto two fixed sectors, enough to
// exercise multi-sector reads/writes without pulling in pkg/inode.
type fakeHeader struct {
	length  int
	sectors []int
}

func (h *fakeHeader) FileLength() int { return h.length }

func (h *fakeHeader) ByteToSector(offset int) (int, error) {
	return h.sectors[offset/8], nil
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	dev := newFakeDevice(8, 4)
	hdr := &fakeHeader{length: 16, sectors: []int{0, 1}}
	f := New(dev, hdr, false)

	data := []byte("abcdefghijklmnop")
	n, err := f.Write(data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(data) {
		t.Fatalf("Write returned %d, want %d", n, len(data))
	}

	f2 := New(dev, hdr, true)
	got := make([]byte, 16)
	n, err = io.ReadFull(f2, got)
	if err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if n != 16 || !bytes.Equal(got, data) {
		t.Fatalf("read back %q, want %q", got, data)
	}
}

func TestWriteBeyondLengthFails(t *testing.T) {
	dev := newFakeDevice(8, 4)
	hdr := &fakeHeader{length: 8, sectors: []int{0}}
	f := New(dev, hdr, false)

	if _, err := f.Write([]byte("123456789")); err != ErrGrowthNotSupported {
		t.Errorf("Write past FileLength() err = %v, want ErrGrowthNotSupported", err)
	}
}

func TestWriteToReadOnlyFails(t *testing.T) {
	dev := newFakeDevice(8, 4)
	hdr := &fakeHeader{length: 8, sectors: []int{0}}
	f := New(dev, hdr, true)

	if _, err := f.Write([]byte("x")); err != ErrReadOnly {
		t.Errorf("Write on read-only handle err = %v, want ErrReadOnly", err)
	}
}

func TestSeekAndReadAt(t *testing.T) {
	dev := newFakeDevice(8, 4)
	hdr := &fakeHeader{length: 16, sectors: []int{0, 1}}
	f := New(dev, hdr, false)
	f.Write([]byte("0123456789abcdef"))

	if _, err := f.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 4)
	n, err := f.Read(got)
	if err != nil {
		t.Fatalf("Read after Seek: %v", err)
	}
	if n != 4 || string(got) != "abcd" {
		t.Errorf("Read after Seek(10) = %q, want %q", got, "abcd")
	}
}

func TestReadPastEndReturnsEOF(t *testing.T) {
	dev := newFakeDevice(8, 4)
	hdr := &fakeHeader{length: 8, sectors: []int{0}}
	f := New(dev, hdr, true)
	f.Seek(8, io.SeekStart)

	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != io.EOF {
		t.Errorf("Read at end err = %v, want io.EOF", err)
	}
}
