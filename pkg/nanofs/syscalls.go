package nanofs

// Syscalls is a thin trap-numbered adapter over FS, shaped after a
// kernel's syscall dispatch table rather than the library-style
// facade above: every method takes and returns only the primitive
// types a trap handler can pass across a user/kernel boundary
// (strings, ints, byte slices), never *FS or *openfile.File directly.
type Syscalls struct {
	fs *FS
}

// NewSyscalls wraps fs for trap dispatch.
func NewSyscalls(fs *FS) *Syscalls {
	return &Syscalls{fs: fs}
}

// SysCreate creates a file or directory, returning 1 on success and 0
// on failure in place of an error, matching a boolean-return trap
// convention.
func (s *Syscalls) SysCreate(name string, initialSize int, isDir bool) int {
	if err := s.fs.Create(name, initialSize, isDir); err != nil {
		return 0
	}
	return 1
}

// SysOpen opens name and returns its descriptor id, or -1 on failure.
func (s *Syscalls) SysOpen(name string) int {
	id, err := s.fs.Open(name)
	if err != nil {
		return -1
	}
	return id
}

// SysWrite writes data to the file open under id, returning the
// number of bytes written or -1 on failure.
func (s *Syscalls) SysWrite(id int, data []byte) int {
	handle, err := s.fs.Handle(id)
	if err != nil {
		return -1
	}
	n, err := handle.Write(data)
	if err != nil {
		return -1
	}
	return n
}

// SysRead reads up to len(buf) bytes from the file open under id,
// returning the number of bytes read or -1 on failure.
func (s *Syscalls) SysRead(id int, buf []byte) int {
	handle, err := s.fs.Handle(id)
	if err != nil {
		return -1
	}
	n, err := handle.Read(buf)
	if err != nil && n == 0 {
		return -1
	}
	return n
}

// SysClose releases the descriptor id, returning 1 on success and 0
// on failure.
func (s *Syscalls) SysClose(id int) int {
	if err := s.fs.Close(id); err != nil {
		return 0
	}
	return 1
}

// SysHalt is a no-op hook: shutdown of the host process is outside
// the facade's scope, kept only so the trap table is complete.
func (s *Syscalls) SysHalt() {}
