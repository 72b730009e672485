package nanofs

import (
	"fmt"

	"github.com/nanofs/nanofs/pkg/directory"
	"github.com/nanofs/nanofs/pkg/inode"
	"github.com/nanofs/nanofs/pkg/openfile"
	"github.com/nanofs/nanofs/pkg/pathwalk"
)

// dirHandle bundles an open directory file with the Directory decoded
// from it. The facade's root directory handle is long-lived; every
// other dirHandle is scoped to one operation.
type dirHandle struct {
	sector int
	header *inode.Header
	file   *openfile.File
	dir    *directory.Directory
}

// lookup adapts dirHandle to pathwalk.Lookup.
func (h *dirHandle) Find(name string) int   { return h.dir.Find(name) }
func (h *dirHandle) IsDir(name string) bool { return h.dir.IsDir(name) }

// openDir fetches the inode chain rooted at sector, opens it for
// read/write, and decodes its contents as a directory.
func (fs *FS) openDir(sector int) (*dirHandle, error) {
	hdr := inode.New(fs.dev)
	if err := hdr.FetchFrom(sector); err != nil {
		return nil, fmt.Errorf("%w: opening directory at sector %d: %v", ErrIOFatal, sector, err)
	}
	file := openfile.New(fs.dev, hdr, false)
	dir := directory.New(fs.cfg.NumDirEntries)
	if err := dir.FetchFrom(file); err != nil {
		return nil, fmt.Errorf("%w: decoding directory at sector %d: %v", ErrIOFatal, sector, err)
	}
	return &dirHandle{sector: sector, header: hdr, file: file, dir: dir}, nil
}

// resolver builds a fresh pathwalk.Resolver bound to this facade's
// live root handle and openDir.
func (fs *FS) resolver() pathwalk.Resolver[*dirHandle] {
	return pathwalk.Resolver[*dirHandle]{
		Root: fs.root,
		Lookup: func(h *dirHandle) pathwalk.Lookup { return h },
		Open:   fs.openDir,
	}
}

// resolveContaining resolves path down to its containing directory
// handle and trailing name, translating pathwalk errors to this
// package's error kinds.
func (fs *FS) resolveContaining(path string) (*dirHandle, string, error) {
	h, name, err := fs.resolver().Resolve(path)
	switch err {
	case nil:
		return h, name, nil
	case pathwalk.ErrInvalidPath:
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	case pathwalk.ErrNotFound:
		return nil, "", fmt.Errorf("%w: %q", ErrNotFound, path)
	default:
		return nil, "", err
	}
}

// releaseUnlessRoot closes h unless it aliases the long-lived root
// directory handle, which stays open for the facade's lifetime.
func (fs *FS) releaseUnlessRoot(h *dirHandle) {
	if h == fs.root {
		return
	}
	h.file.Close()
}

// resolveDirectory resolves path to the directory it names (not its
// parent), for List: "/" and "" both mean the root directory itself.
func (fs *FS) resolveDirectory(path string) (*dirHandle, error) {
	if path == "/" || path == "" {
		return fs.root, nil
	}

	containing, name, err := fs.resolveContaining(path)
	if err != nil {
		return nil, err
	}
	defer fs.releaseUnlessRoot(containing)

	if !containing.dir.IsDir(name) {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrNotFound, path)
	}
	sector := containing.dir.Find(name)
	if sector < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	return fs.openDir(sector)
}
