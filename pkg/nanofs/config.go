package nanofs

import "github.com/nanofs/nanofs/internal/layout"

// FreeMapSector and DirectorySector are the well-known inode
// locations of the root bitmap file and root directory file.
const (
	FreeMapSector   = 0
	DirectorySector = 1
)

// MaxFileNumDefault bounds simultaneously open files when a Config
// does not set MaxFileNum explicitly.
const MaxFileNumDefault = 16

// Config is the disk geometry and table sizes a facade is built
// against.
type Config struct {
	SectorSize    int
	NumSectors    int
	NumDirEntries int
	MaxFileNum    int
}

// DefaultConfig returns a small, easy-to-reason-about geometry
// suitable for tests and the CLI's format defaults.
func DefaultConfig() Config {
	return Config{
		SectorSize:    128,
		NumSectors:    64,
		NumDirEntries: 10,
		MaxFileNum:    MaxFileNumDefault,
	}
}

// WithDefaults returns a copy of c with zero-valued fields filled in
// from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.SectorSize <= 0 {
		c.SectorSize = 128
	}
	if c.NumSectors <= 0 {
		c.NumSectors = 64
	}
	if c.NumDirEntries <= 0 {
		c.NumDirEntries = 10
	}
	if c.MaxFileNum <= 0 {
		c.MaxFileNum = MaxFileNumDefault
	}
	return c
}

// numDirect returns the direct sector table size for this config's
// sector size, as computed by layout.NumDirectForSectorSize.
func (c Config) numDirect() int {
	return layout.NumDirectForSectorSize(c.SectorSize)
}

// MaxFileSize returns the byte capacity of a single inode segment
// under this config.
func (c Config) MaxFileSize() int {
	return layout.MaxFileSize(c.SectorSize, c.numDirect())
}

// FreeMapFileSize returns the byte length of the bitmap file under
// this config.
func (c Config) FreeMapFileSize() int {
	return layout.FreeMapFileSize(c.NumSectors)
}

// DirectoryFileSize returns the byte length of a directory file under
// this config.
func (c Config) DirectoryFileSize() int {
	return layout.DirectoryFileSize(c.NumDirEntries)
}
