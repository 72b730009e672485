package directory

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type memFile struct {
	buf []byte
}

func newMemFile(size int) *memFile { return &memFile{buf: make([]byte, size)} }

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m.buf[off:])
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	n := copy(m.buf[off:], p)
	return n, nil
}

func TestAddFindRemove(t *testing.T) {
	d := New(10)

	ok, err := d.Add("a", 5, false)
	if err != nil || !ok {
		t.Fatalf("Add(a) = %v, %v", ok, err)
	}
	if got := d.Find("a"); got != 5 {
		t.Errorf("Find(a) = %d, want 5", got)
	}
	if d.IsDir("a") {
		t.Errorf("IsDir(a) = true, want false")
	}

	ok, err = d.Add("a", 9, false)
	if err != nil || ok {
		t.Errorf("Add(a) duplicate = %v, %v, want false, nil", ok, err)
	}

	if !d.Remove("a") {
		t.Errorf("Remove(a) = false, want true")
	}
	if d.Find("a") != -1 {
		t.Errorf("Find(a) after remove = %d, want -1", d.Find("a"))
	}
	if d.Remove("a") {
		t.Errorf("Remove(a) twice = true, want false")
	}
}

func TestAddFailsWhenFull(t *testing.T) {
	d := New(2)
	if ok, _ := d.Add("a", 1, false); !ok {
		t.Fatalf("Add(a) failed")
	}
	if ok, _ := d.Add("b", 2, false); !ok {
		t.Fatalf("Add(b) failed")
	}
	ok, err := d.Add("c", 3, false)
	if err != nil || ok {
		t.Errorf("Add(c) on full directory = %v, %v, want false, nil", ok, err)
	}
}

func TestAddRejectsOverlongName(t *testing.T) {
	d := New(4)
	if _, err := d.Add(strings.Repeat("x", 100), 1, false); err == nil {
		t.Errorf("Add with overlong name succeeded, want error")
	}
}

func TestWriteBackFetchFromRoundTrip(t *testing.T) {
	d := New(4)
	d.Add("one", 10, false)
	d.Add("two", 11, true)

	f := newMemFile(4 * 32)
	if err := d.WriteBack(f); err != nil {
		t.Fatalf("WriteBack: %v", err)
	}

	got := New(4)
	if err := got.FetchFrom(f); err != nil {
		t.Fatalf("FetchFrom: %v", err)
	}

	if got.Find("one") != 10 {
		t.Errorf("Find(one) after round trip = %d, want 10", got.Find("one"))
	}
	if !got.IsDir("two") {
		t.Errorf("IsDir(two) after round trip = false, want true")
	}

	want := []Entry{
		{InUse: true, IsDir: false, Sector: 10, Name: "one"},
		{InUse: true, IsDir: true, Sector: 11, Name: "two"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Errorf("Entries() after round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestListRecursive(t *testing.T) {
	root := New(4)
	root.Add("a", 1, false)
	root.Add("sub", 2, true)

	child := New(4)
	child.Add("b", 3, false)

	var buf bytes.Buffer
	opener := func(sector int) (*Directory, error) {
		if sector == 2 {
			return child, nil
		}
		t.Fatalf("unexpected open of sector %d", sector)
		return nil, nil
	}

	if err := root.List(&buf, 0, true, opener); err != nil {
		t.Fatalf("List: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "f a\n") {
		t.Errorf("output missing file a, got:\n%s", out)
	}
	if !strings.Contains(out, "d sub\n") {
		t.Errorf("output missing dir sub, got:\n%s", out)
	}
	if !strings.Contains(out, "  f b\n") {
		t.Errorf("output missing indented child b, got:\n%s", out)
	}
}
