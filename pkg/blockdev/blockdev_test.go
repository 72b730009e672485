package blockdev

import (
	"bytes"
	"testing"
)

func TestReadWriteSectorRoundTrip(t *testing.T) {
	dev := New(128, 4)

	buf := make([]byte, 128)
	for i := range buf {
		buf[i] = byte(i)
	}
	if err := dev.WriteSector(2, buf); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	got := make([]byte, 128)
	if err := dev.ReadSector(2, got); err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Errorf("ReadSector returned different bytes than WriteSector wrote")
	}
}

func TestOutOfRangeSectorIsError(t *testing.T) {
	dev := New(128, 4)
	buf := make([]byte, 128)
	if err := dev.ReadSector(4, buf); err == nil {
		t.Errorf("ReadSector(4) on a 4-sector device did not fail")
	}
	if err := dev.WriteSector(-1, buf); err == nil {
		t.Errorf("WriteSector(-1) did not fail")
	}
}

func TestWrongSizedBufferIsError(t *testing.T) {
	dev := New(128, 4)
	if err := dev.WriteSector(0, make([]byte, 64)); err == nil {
		t.Errorf("WriteSector with undersized buffer did not fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dev := New(64, 8)
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = 0xAB
	}
	dev.WriteSector(3, buf)

	var out bytes.Buffer
	if err := dev.Save(&out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&out, 64, 8)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := make([]byte, 64)
	loaded.ReadSector(3, got)
	if !bytes.Equal(got, buf) {
		t.Errorf("loaded sector 3 does not match saved contents")
	}
}
