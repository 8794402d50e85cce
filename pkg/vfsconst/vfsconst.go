// Package vfsconst defines the stable numeric constants pkg/vfs exposes at
// its boundary: file-type/permission bits, access-check modes, open
// flags, and inotify masks. Values are sourced from golang.org/x/sys/unix
// rather than invented, so callers can assert interop with real POSIX and
// inotify numbering (e.g. vfsconst.IN_CREATE == unix.IN_CREATE).
package vfsconst

import "golang.org/x/sys/unix"

// File-type and permission bits (mode_t layout).
const (
	S_IFMT  = unix.S_IFMT
	S_IFREG = unix.S_IFREG
	S_IFDIR = unix.S_IFDIR
	S_IFLNK = unix.S_IFLNK
	S_IFBLK = unix.S_IFBLK
	S_IFCHR = unix.S_IFCHR
	S_IFIFO = unix.S_IFIFO
	S_IFSOCK = unix.S_IFSOCK

	S_IRWXU = unix.S_IRWXU
	S_IRWXG = unix.S_IRWXG
	S_IRWXO = unix.S_IRWXO

	S_ISUID = unix.S_ISUID
	S_ISGID = unix.S_ISGID
	S_ISVTX = unix.S_ISVTX
)

// Access-check modes, for the access(2) family.
const (
	F_OK = unix.F_OK
	R_OK = unix.R_OK
	W_OK = unix.W_OK
	X_OK = unix.X_OK
)

// Open flags.
const (
	O_RDONLY    = unix.O_RDONLY
	O_WRONLY    = unix.O_WRONLY
	O_RDWR      = unix.O_RDWR
	O_ACCMODE   = unix.O_ACCMODE
	O_CREAT     = unix.O_CREAT
	O_EXCL      = unix.O_EXCL
	O_TRUNC     = unix.O_TRUNC
	O_APPEND    = unix.O_APPEND
	O_SYNC      = unix.O_SYNC
	O_DIRECTORY = unix.O_DIRECTORY
	O_NOFOLLOW  = unix.O_NOFOLLOW
)

// Inotify event masks.
const (
	IN_ACCESS        = unix.IN_ACCESS
	IN_MODIFY        = unix.IN_MODIFY
	IN_ATTRIB        = unix.IN_ATTRIB
	IN_CLOSE_WRITE   = unix.IN_CLOSE_WRITE
	IN_CLOSE_NOWRITE = unix.IN_CLOSE_NOWRITE
	IN_OPEN          = unix.IN_OPEN
	IN_MOVED_FROM    = unix.IN_MOVED_FROM
	IN_MOVED_TO      = unix.IN_MOVED_TO
	IN_CREATE        = unix.IN_CREATE
	IN_DELETE        = unix.IN_DELETE
	IN_DELETE_SELF   = unix.IN_DELETE_SELF
	IN_MOVE_SELF     = unix.IN_MOVE_SELF

	IN_ALL_EVENTS = IN_ACCESS | IN_MODIFY | IN_ATTRIB | IN_CLOSE_WRITE | IN_CLOSE_NOWRITE |
		IN_OPEN | IN_MOVED_FROM | IN_MOVED_TO | IN_CREATE | IN_DELETE | IN_DELETE_SELF | IN_MOVE_SELF

	IN_ISDIR      = unix.IN_ISDIR
	IN_ONESHOT    = unix.IN_ONESHOT
	IN_ONLYDIR    = unix.IN_ONLYDIR
	IN_DONT_FOLLOW = unix.IN_DONT_FOLLOW
	IN_MASK_ADD   = unix.IN_MASK_ADD
	IN_EXCL_UNLINK = unix.IN_EXCL_UNLINK
	IN_IGNORED    = unix.IN_IGNORED
)
