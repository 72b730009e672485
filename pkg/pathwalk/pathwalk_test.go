package pathwalk

import "testing"

type fakeDir struct {
	name  string
	files map[string]int
	dirs  map[string]bool
}

func (d *fakeDir) Find(name string) int {
	if s, ok := d.files[name]; ok {
		return s
	}
	return -1
}

func (d *fakeDir) IsDir(name string) bool { return d.dirs[name] }

type handle struct {
	dir *fakeDir
}

func newResolver() (Resolver[*handle], *handle, *handle) {
	root := &handle{dir: &fakeDir{
		name:  "/",
		files: map[string]int{"a": 10, "sub": 20},
		dirs:  map[string]bool{"sub": true},
	}}
	sub := &handle{dir: &fakeDir{
		name:  "/sub",
		files: map[string]int{"b": 30},
		dirs:  map[string]bool{},
	}}

	r := Resolver[*handle]{
		Root: root,
		Lookup: func(h *handle) Lookup { return h.dir },
		Open: func(sector int) (*handle, error) {
			if sector == 20 {
				return sub, nil
			}
			return nil, ErrNotFound
		},
	}
	return r, root, sub
}

func TestResolveSingleComponentAliasesRoot(t *testing.T) {
	r, root, _ := newResolver()

	h, name, err := r.Resolve("/a")
	if err != nil {
		t.Fatalf("Resolve(/a): %v", err)
	}
	if name != "a" {
		t.Errorf("name = %q, want a", name)
	}
	if h != root {
		t.Errorf("handle does not alias root for single-component path")
	}
}

func TestResolveNestedComponent(t *testing.T) {
	r, _, sub := newResolver()

	h, name, err := r.Resolve("/sub/b")
	if err != nil {
		t.Fatalf("Resolve(/sub/b): %v", err)
	}
	if name != "b" {
		t.Errorf("name = %q, want b", name)
	}
	if h != sub {
		t.Errorf("handle does not alias the opened sub-directory")
	}
}

func TestResolveMissingIntermediateDirectory(t *testing.T) {
	r, _, _ := newResolver()

	if _, _, err := r.Resolve("/nope/b"); err != ErrNotFound {
		t.Errorf("Resolve(/nope/b) err = %v, want ErrNotFound", err)
	}
}

func TestResolveNonDirectoryIntermediateComponent(t *testing.T) {
	r, _, _ := newResolver()

	// "a" exists but is a file, not a directory.
	if _, _, err := r.Resolve("/a/b"); err != ErrNotFound {
		t.Errorf("Resolve(/a/b) err = %v, want ErrNotFound", err)
	}
}

func TestResolveRejectsRelativePath(t *testing.T) {
	r, _, _ := newResolver()

	if _, _, err := r.Resolve("a/b"); err != ErrInvalidPath {
		t.Errorf("Resolve(a/b) err = %v, want ErrInvalidPath", err)
	}
}

func TestResolveRejectsBareRoot(t *testing.T) {
	r, _, _ := newResolver()

	if _, _, err := r.Resolve("/"); err != ErrNotFound {
		t.Errorf("Resolve(/) err = %v, want ErrNotFound", err)
	}
	if _, _, err := r.Resolve(""); err != ErrNotFound {
		t.Errorf("Resolve(\"\") err = %v, want ErrNotFound", err)
	}
}
