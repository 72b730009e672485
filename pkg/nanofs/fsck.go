package nanofs

import (
	"fmt"

	"github.com/nanofs/nanofs/pkg/directory"
	"github.com/nanofs/nanofs/pkg/inode"
)

// Fsck walks the whole directory tree and verifies its invariants:
// every reachable data sector is marked used in the free map, no
// sector is claimed by two files, and every directory's names are
// unique.
func (fs *FS) Fsck() error {
	seen := make(map[int]string)

	if err := fs.checkOwnSector(FreeMapSector, "<free map>", seen); err != nil {
		return err
	}
	if err := fs.checkAllocation(fs.bitmapHeader, "<free map>", seen); err != nil {
		return err
	}
	if err := fs.checkOwnSector(DirectorySector, "/", seen); err != nil {
		return err
	}
	if err := fs.checkAllocation(fs.root.header, "/", seen); err != nil {
		return err
	}
	return fs.walkDirectory("/", fs.root.dir, seen)
}

// checkOwnSector verifies that a header's own sector (as opposed to
// its data sectors) is marked used and not claimed twice.
func (fs *FS) checkOwnSector(sector int, owner string, seen map[int]string) error {
	used, err := fs.bm.Test(sector)
	if err != nil {
		return fmt.Errorf("%s: %w", owner, err)
	}
	if !used {
		return fmt.Errorf("%s: header sector %d not marked used in free map", owner, sector)
	}
	if prev, ok := seen[sector]; ok && prev != owner {
		return fmt.Errorf("sector %d claimed by both %q and %q", sector, prev, owner)
	}
	seen[sector] = owner
	return nil
}

func (fs *FS) walkDirectory(path string, dir *directory.Directory, seen map[int]string) error {
	names := make(map[string]bool)
	for _, e := range dir.Entries() {
		if names[e.Name] {
			return fmt.Errorf("duplicate name %q in %s", e.Name, path)
		}
		names[e.Name] = true

		childPath := path + e.Name
		if path != "/" {
			childPath = path + "/" + e.Name
		}

		if err := fs.checkOwnSector(e.Sector, childPath, seen); err != nil {
			return err
		}
		hdr := inode.New(fs.dev)
		if err := hdr.FetchFrom(e.Sector); err != nil {
			return fmt.Errorf("%s: reading inode at sector %d: %w", childPath, e.Sector, err)
		}
		if err := fs.checkAllocation(hdr, childPath, seen); err != nil {
			return err
		}

		if e.IsDir {
			child, err := fs.openDir(e.Sector)
			if err != nil {
				return err
			}
			err = fs.walkDirectory(childPath, child.dir, seen)
			fs.releaseUnlessRoot(child)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// checkAllocation verifies that every sector an inode chain claims —
// its own header sectors and data sectors — is marked used in the
// bitmap and not already claimed by a different file.
func (fs *FS) checkAllocation(hdr *inode.Header, owner string, seen map[int]string) error {
	for _, s := range hdr.DataSectors() {
		if s < 0 {
			continue
		}
		used, err := fs.bm.Test(s)
		if err != nil {
			return fmt.Errorf("%s: %w", owner, err)
		}
		if !used {
			return fmt.Errorf("%s: data sector %d not marked used in free map", owner, s)
		}
		if prev, ok := seen[s]; ok && prev != owner {
			return fmt.Errorf("sector %d claimed by both %q and %q", s, prev, owner)
		}
		seen[s] = owner
	}
	if hdr.NextHeaderSector() == inode.None {
		return nil
	}
	if err := fs.checkOwnSector(hdr.NextHeaderSector(), owner, seen); err != nil {
		return err
	}
	next := inode.New(fs.dev)
	if err := next.FetchFrom(hdr.NextHeaderSector()); err != nil {
		return fmt.Errorf("%s: reading continuation header: %w", owner, err)
	}
	return fs.checkAllocation(next, owner, seen)
}
