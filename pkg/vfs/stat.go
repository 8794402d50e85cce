package vfs

// Stat is the platform-independent stat record pkg/vfs exposes. It plays
// the role the teacher's per-arch FileInfo/syscall.Stat_t pairing
// (pkg/vfs/types.go, stat_amd64.go, stat_arm64.go) plays for a real
// filesystem, collapsed to one struct since an in-memory filesystem has
// no per-architecture Stat_t layout to match.
type Stat struct {
	Dev         uint64
	Ino         uint64
	Mode        uint32
	Nlink       uint32
	Uid         uint32
	Gid         uint32
	Rdev        uint64
	Size        int64
	Blksize     int64
	Blocks      int64
	AtimeMs     int64
	MtimeMs     int64
	CtimeMs     int64
	BirthtimeMs int64
}

const defaultBlksize = 4096

func (fs *FileSystem) statOf(n *Inode) Stat {
	var size int64
	switch n.kind {
	case KindFile:
		fs.materializeFile(n)
		size = int64(len(n.file.data))
	case KindSymlink:
		size = int64(len(n.symlink.target))
	case KindDir:
		size = 0
	}
	return Stat{
		Dev:         n.Dev,
		Ino:         n.Ino,
		Mode:        n.Mode,
		Nlink:       n.Nlink,
		Uid:         n.Uid,
		Gid:         n.Gid,
		Rdev:        0,
		Size:        size,
		Blksize:     defaultBlksize,
		Blocks:      0,
		AtimeMs:     n.AtimeMs,
		MtimeMs:     n.MtimeMs,
		CtimeMs:     n.CtimeMs,
		BirthtimeMs: n.BirthtimeMs,
	}
}

func (s Stat) IsDir() bool          { return s.Mode&sIFMT == sIFDIR }
func (s Stat) IsFile() bool         { return s.Mode&sIFMT == sIFREG }
func (s Stat) IsSymbolicLink() bool { return s.Mode&sIFMT == sIFLNK }

// Stat resolves path, following a trailing symlink, and returns its
// stat record. Like POSIX stat(2), this does not bump atime — only
// content reads (Read, Readdir) do that.
func (fs *FileSystem) Stat(path string) (Stat, error) {
	e, err := fs.resolve(path, "stat", false)
	if err != nil {
		return Stat{}, err
	}
	return fs.statOf(e.Node), nil
}

// Lstat resolves path without following a trailing symlink. Like Stat,
// it does not bump atime.
func (fs *FileSystem) Lstat(path string) (Stat, error) {
	e, err := fs.resolve(path, "lstat", true)
	if err != nil {
		return Stat{}, err
	}
	return fs.statOf(e.Node), nil
}

func (fs *FileSystem) touchAtime(n *Inode) {
	n.AtimeMs = nowMs()
}
