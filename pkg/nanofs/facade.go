// Package nanofs is the file-system facade: Format, Create, Open,
// Remove, List and Print, the operations that mutate or read the
// bitmap, inode chains and directory tree while keeping the three
// mutually consistent.
package nanofs

import (
	"fmt"
	"io"

	"github.com/nanofs/nanofs/pkg/bitmap"
	"github.com/nanofs/nanofs/pkg/blockdev"
	"github.com/nanofs/nanofs/pkg/directory"
	"github.com/nanofs/nanofs/pkg/inode"
	"github.com/nanofs/nanofs/pkg/openfile"
)

// FS is the file-system facade. The bitmap and root directory files
// are opened once (by Format or Mount) and held open for its entire
// lifetime.
type FS struct {
	cfg Config
	dev *blockdev.Device

	bm           *bitmap.Bitmap
	bitmapHeader *inode.Header
	bitmapFile   *openfile.File

	root *dirHandle

	fdTable []*openfile.File // index 0 reserved
}

// Format constructs a fresh bitmap and root directory on dev and
// keeps both files open for the returned FS's lifetime. dev must be
// newly created or about to be overwritten — Format does not preserve
// any prior contents.
func Format(dev *blockdev.Device, cfg Config) (*FS, error) {
	cfg = cfg.WithDefaults()

	bm := bitmap.New(dev.NumSectors())
	if err := bm.Mark(FreeMapSector); err != nil {
		return nil, fmt.Errorf("%w: marking free-map sector: %v", ErrIOFatal, err)
	}
	if err := bm.Mark(DirectorySector); err != nil {
		return nil, fmt.Errorf("%w: marking directory sector: %v", ErrIOFatal, err)
	}

	mapHdr := inode.New(dev)
	if mapHdr.Allocate(bm, cfg.FreeMapFileSize()) == 0 {
		return nil, fmt.Errorf("%w: allocating free-map file", ErrNoSpace)
	}
	dirHdr := inode.New(dev)
	if dirHdr.Allocate(bm, cfg.DirectoryFileSize()) == 0 {
		return nil, fmt.Errorf("%w: allocating root directory file", ErrNoSpace)
	}

	if err := mapHdr.WriteBack(FreeMapSector); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := dirHdr.WriteBack(DirectorySector); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}

	bitmapFile := openfile.New(dev, mapHdr, false)
	rootDirFile := openfile.New(dev, dirHdr, false)

	if err := bm.WriteBack(bitmapFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	emptyRoot := directory.New(cfg.NumDirEntries)
	if err := emptyRoot.WriteBack(rootDirFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}

	fs := &FS{
		cfg:          cfg,
		dev:          dev,
		bm:           bm,
		bitmapHeader: mapHdr,
		bitmapFile:   bitmapFile,
		fdTable:      make([]*openfile.File, cfg.MaxFileNum+1),
	}
	fs.root = &dirHandle{sector: DirectorySector, header: dirHdr, file: rootDirFile, dir: emptyRoot}
	return fs, nil
}

// Mount opens the bitmap and root directory files of an already
// formatted device, without reinitializing anything.
func Mount(dev *blockdev.Device, cfg Config) (*FS, error) {
	cfg = cfg.WithDefaults()

	mapHdr := inode.New(dev)
	if err := mapHdr.FetchFrom(FreeMapSector); err != nil {
		return nil, fmt.Errorf("%w: reading free-map header: %v", ErrIOFatal, err)
	}
	dirHdr := inode.New(dev)
	if err := dirHdr.FetchFrom(DirectorySector); err != nil {
		return nil, fmt.Errorf("%w: reading root directory header: %v", ErrIOFatal, err)
	}

	bitmapFile := openfile.New(dev, mapHdr, false)
	rootDirFile := openfile.New(dev, dirHdr, false)

	bm := bitmap.New(dev.NumSectors())
	if err := bm.FetchFrom(bitmapFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	rootDir := directory.New(cfg.NumDirEntries)
	if err := rootDir.FetchFrom(rootDirFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}

	fs := &FS{
		cfg:          cfg,
		dev:          dev,
		bm:           bm,
		bitmapHeader: mapHdr,
		bitmapFile:   bitmapFile,
		fdTable:      make([]*openfile.File, cfg.MaxFileNum+1),
	}
	fs.root = &dirHandle{sector: DirectorySector, header: dirHdr, file: rootDirFile, dir: rootDir}
	return fs, nil
}

// Create makes a new file or sub-directory at path. When isDir is
// true, initialSize is overridden with the config's directory file
// size.
func (fs *FS) Create(path string, initialSize int, isDir bool) error {
	if isDir {
		initialSize = fs.cfg.DirectoryFileSize()
	}

	containing, name, err := fs.resolveContaining(path)
	if err != nil {
		return err
	}
	defer fs.releaseUnlessRoot(containing)

	if containing.dir.Find(name) != -1 {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, path)
	}

	// Snapshot before touching the bitmap: Header.Allocate can consume
	// several segments' worth of sectors (including a chained
	// nextHeaderSector) before a later segment fails to allocate, and on
	// failure every sector it already claimed must go back to free,
	// not just the head inode's own sector.
	snapshot := fs.bm.Snapshot()

	sector := fs.bm.FindAndSet()
	if sector < 0 {
		return fmt.Errorf("%w: no sector for file header", ErrNoSpace)
	}

	ok, err := containing.dir.Add(name, sector, isDir)
	if err != nil {
		fs.bm.Restore(snapshot)
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !ok {
		fs.bm.Restore(snapshot)
		return fmt.Errorf("%w: %q", ErrDirectoryFull, path)
	}

	hdr := inode.New(fs.dev)
	if hdr.Allocate(fs.bm, initialSize) == 0 {
		containing.dir.Remove(name)
		fs.bm.Restore(snapshot)
		return fmt.Errorf("%w: allocating data blocks for %q", ErrNoSpace, path)
	}

	if err := hdr.WriteBack(sector); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := containing.dir.WriteBack(containing.file); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := fs.bm.WriteBack(fs.bitmapFile); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	return nil
}

// Open resolves path to an existing file, installs it in the
// descriptor table and returns its id (1..MaxFileNum).
func (fs *FS) Open(path string) (int, error) {
	containing, name, err := fs.resolveContaining(path)
	if err != nil {
		return -1, err
	}
	defer fs.releaseUnlessRoot(containing)

	sector := containing.dir.Find(name)
	if sector < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	id := -1
	for i := 1; i < len(fs.fdTable); i++ {
		if fs.fdTable[i] == nil {
			id = i
			break
		}
	}
	if id == -1 {
		return -1, fmt.Errorf("%w", ErrDescriptorTableFull)
	}

	hdr := inode.New(fs.dev)
	if err := hdr.FetchFrom(sector); err != nil {
		return -1, fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	fs.fdTable[id] = openfile.New(fs.dev, hdr, false)
	return id, nil
}

// Handle returns the open-file handle for a descriptor returned by
// Open, for the byte-level Read/Write operations outside this
// package's scope.
func (fs *FS) Handle(id int) (*openfile.File, error) {
	if id <= 0 || id >= len(fs.fdTable) || fs.fdTable[id] == nil {
		return nil, fmt.Errorf("%w: descriptor %d", ErrNotFound, id)
	}
	return fs.fdTable[id], nil
}

// Close releases descriptor id.
func (fs *FS) Close(id int) error {
	if id <= 0 || id >= len(fs.fdTable) || fs.fdTable[id] == nil {
		return fmt.Errorf("%w: descriptor %d", ErrNotFound, id)
	}
	fs.fdTable[id].Close()
	fs.fdTable[id] = nil
	return nil
}

// Remove deletes path. When the entry is a directory and recursive is
// true, every sub-entry is removed first, depth first, in directory
// entry order. When recursive is false and the entry is a non-empty
// directory, its inode and entry are still removed — its sub-entries
// become unreachable, and their sectors stay marked used in the free
// map until a reformat; Fsck neither reports nor reclaims them (see
// DESIGN.md).
func (fs *FS) Remove(recursive bool, path string) error {
	containing, name, err := fs.resolveContaining(path)
	if err != nil {
		return err
	}
	defer fs.releaseUnlessRoot(containing)

	sector := containing.dir.Find(name)
	if sector < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, path)
	}

	if containing.dir.IsDir(name) && recursive {
		if err := fs.removeChildren(path, sector); err != nil {
			return err
		}
	}

	hdr := inode.New(fs.dev)
	if err := hdr.FetchFrom(sector); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := hdr.Deallocate(fs.bm); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := fs.bm.Clear(sector); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	containing.dir.Remove(name)

	if err := fs.bm.WriteBack(fs.bitmapFile); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	if err := containing.dir.WriteBack(containing.file); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFatal, err)
	}
	return nil
}

func (fs *FS) removeChildren(path string, sector int) error {
	child, err := fs.openDir(sector)
	if err != nil {
		return err
	}
	defer fs.releaseUnlessRoot(child)

	for _, e := range child.dir.Entries() {
		childPath := path + "/" + e.Name
		if err := fs.Remove(true, childPath); err != nil {
			return fmt.Errorf("removing %q: %w", childPath, err)
		}
	}
	return nil
}

// List writes the contents of dirPath to w, one entry per line.
func (fs *FS) List(w io.Writer, recursive bool, dirPath string) error {
	h, err := fs.resolveDirectory(dirPath)
	if err != nil {
		return err
	}
	defer fs.releaseUnlessRoot(h)

	opener := func(sector int) (*directory.Directory, error) {
		sub, err := fs.openDir(sector)
		if err != nil {
			return nil, err
		}
		return sub.dir, nil
	}
	return h.dir.List(w, 0, recursive, opener)
}

// Print dumps the bitmap header, root directory header, bitmap bits
// and directory contents to w, for diagnostics. Data sectors are
// printed as raw hex/ASCII rather than reinterpreted as an indirect
// sector table.
func (fs *FS) Print(w io.Writer) error {
	fmt.Fprintf(w, "free map file: %d bytes, %d sectors, %d clear sectors\n",
		fs.bitmapHeader.FileLength(), fs.bitmapHeader.NumSectors(), fs.bm.NumClear())
	fmt.Fprintf(w, "free map sectors: %v\n", fs.bitmapHeader.DataSectors())
	fmt.Fprint(w, "free map bits: ")
	for s := 0; s < fs.dev.NumSectors(); s++ {
		used, _ := fs.bm.Test(s)
		if used {
			fmt.Fprint(w, "1")
		} else {
			fmt.Fprint(w, "0")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "root directory file: %d bytes, %d sectors\n",
		fs.root.header.FileLength(), fs.root.header.NumSectors())
	fmt.Fprintf(w, "root directory sectors: %v\n", fs.root.header.DataSectors())

	fmt.Fprintln(w, "directory contents:")
	opener := func(sector int) (*directory.Directory, error) {
		sub, err := fs.openDir(sector)
		if err != nil {
			return nil, err
		}
		return sub.dir, nil
	}
	if err := fs.root.dir.List(w, 1, true, opener); err != nil {
		return err
	}

	fmt.Fprintln(w, "raw data sectors:")
	for _, sector := range fs.root.header.DataSectors() {
		if sector < 0 {
			continue
		}
		buf := make([]byte, fs.dev.SectorSize())
		if err := fs.dev.ReadSector(sector, buf); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFatal, err)
		}
		fmt.Fprintf(w, "  sector %d: % x\n", sector, buf)
	}
	return nil
}
