package vfs

import "github.com/vfscore/memvfs/pkg/vfsconst"

// Re-exported POSIX mode/permission constants, sourced from vfsconst
// (itself sourced from golang.org/x/sys/unix) rather than hand-rolled.
const (
	sIFMT  = vfsconst.S_IFMT
	sIFREG = vfsconst.S_IFREG
	sIFDIR = vfsconst.S_IFDIR
	sIFLNK = vfsconst.S_IFLNK

	modePerm = 0o1777 // rwxrwxrwx + sticky bit
	sISGID   = vfsconst.S_ISGID
	sISUID   = vfsconst.S_ISUID
)

// OpenFlags is a bitmask of the O_* flags understood by Open, generalised
// from the teacher's vfs.OpenFlags (pkg/vfs/types.go) with O_SYNC,
// O_DIRECTORY, and O_NOFOLLOW added.
type OpenFlags int

const (
	O_RDONLY    OpenFlags = vfsconst.O_RDONLY
	O_WRONLY    OpenFlags = vfsconst.O_WRONLY
	O_RDWR      OpenFlags = vfsconst.O_RDWR
	O_ACCMODE   OpenFlags = vfsconst.O_ACCMODE
	O_CREAT     OpenFlags = vfsconst.O_CREAT
	O_EXCL      OpenFlags = vfsconst.O_EXCL
	O_TRUNC     OpenFlags = vfsconst.O_TRUNC
	O_APPEND    OpenFlags = vfsconst.O_APPEND
	O_SYNC      OpenFlags = vfsconst.O_SYNC
	O_DIRECTORY OpenFlags = vfsconst.O_DIRECTORY
	O_NOFOLLOW  OpenFlags = vfsconst.O_NOFOLLOW
)

func (f OpenFlags) isWrite() bool    { return f&O_ACCMODE == O_WRONLY || f&O_ACCMODE == O_RDWR }
func (f OpenFlags) isRead() bool     { return f&O_ACCMODE == O_RDONLY || f&O_ACCMODE == O_RDWR }
func (f OpenFlags) isCreate() bool   { return f&O_CREAT != 0 }
func (f OpenFlags) isExcl() bool     { return f&O_EXCL != 0 }
func (f OpenFlags) isTrunc() bool    { return f&O_TRUNC != 0 }
func (f OpenFlags) isAppend() bool   { return f&O_APPEND != 0 }
func (f OpenFlags) isSync() bool     { return f&O_SYNC != 0 }
func (f OpenFlags) isDirOnly() bool  { return f&O_DIRECTORY != 0 }
func (f OpenFlags) isNoFollow() bool { return f&O_NOFOLLOW != 0 }

// ParseFlags accepts either a symbolic alias ("r", "r+", "w", "wx", "w+",
// "wx+", "a", "ax", "a+", "ax+", "rs+") or returns an error for anything
// else — numeric bitmasks are just OpenFlags values and need no parsing.
func ParseFlags(alias string) (OpenFlags, error) {
	switch alias {
	case "r":
		return O_RDONLY, nil
	case "r+":
		return O_RDWR, nil
	case "rs+":
		return O_RDWR | O_SYNC, nil
	case "w":
		return O_WRONLY | O_CREAT | O_TRUNC, nil
	case "wx":
		return O_WRONLY | O_CREAT | O_TRUNC | O_EXCL, nil
	case "w+":
		return O_RDWR | O_CREAT | O_TRUNC, nil
	case "wx+":
		return O_RDWR | O_CREAT | O_TRUNC | O_EXCL, nil
	case "a":
		return O_WRONLY | O_CREAT | O_APPEND, nil
	case "ax":
		return O_WRONLY | O_CREAT | O_APPEND | O_EXCL, nil
	case "a+":
		return O_RDWR | O_CREAT | O_APPEND, nil
	case "ax+":
		return O_RDWR | O_CREAT | O_APPEND | O_EXCL, nil
	default:
		return 0, &Error{Code: EINVAL, Syscall: "open", Path: alias}
	}
}
