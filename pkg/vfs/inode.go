package vfs

import "sync/atomic"

// Kind discriminates the three inode variants. Exactly one of the
// payload pointers on Inode is non-nil for the matching Kind — this is a
// tagged sum, not an interface hierarchy, so every operation switches on
// Kind rather than dispatching through a method set.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

// MetaBag is the opaque key/value metadata attached to an inode (the
// spec's stand-in for extended attributes).
type MetaBag map[string]any

// fileData is the regular-file payload: a materialised byte buffer, or
// (before first access) a pointer at content owned by a mount source, or
// a shadow root to fault bytes in from.
type fileData struct {
	data       []byte
	source     string
	resolver   FileSystemResolver
	shadowRoot *Inode
}

// dirData is the directory payload: an ordered name -> inode mapping, or
// (before first access) a mount source to list, or a shadow root to
// fault children in from.
type dirData struct {
	children   []dirEntry
	source     string
	resolver   FileSystemResolver
	shadowRoot *Inode
}

type dirEntry struct {
	name string
	node *Inode
}

// symlinkData is the symlink payload: the verbatim target string.
type symlinkData struct {
	target     string
	shadowRoot *Inode
}

// WatchDesc is a single inotify watch bound to one inode from one
// watcher's perspective.
type WatchDesc struct {
	Wd      int
	Owner   *Inotify
	Path    string
	Node    *Inode
	Mask    uint32
}

// Inode is the shared header plus exactly one non-nil payload selected
// by Kind. Inodes are referenced directly by pointer from directory
// children slices and from open descriptors; nlink is POSIX bookkeeping,
// not a reference count the Go runtime relies on.
type Inode struct {
	fs *FileSystem

	Dev         uint64
	Ino         uint64
	Mode        uint32
	Nlink       uint32
	Uid         uint32
	Gid         uint32
	AtimeMs     int64
	MtimeMs     int64
	CtimeMs     int64
	BirthtimeMs int64
	Meta        MetaBag

	watches map[int]*WatchDesc

	kind    Kind
	file    *fileData
	dir     *dirData
	symlink *symlinkData
}

// IsDir, IsRegular, IsSymlink classify by Kind, mirroring FileInfo's
// IsDir boolean in the teacher's pkg/vfs/types.go but against the
// in-memory tagged union instead of a real stat mode.
func (n *Inode) IsDir() bool     { return n.kind == KindDir }
func (n *Inode) IsRegular() bool { return n.kind == KindFile }
func (n *Inode) IsSymlink() bool { return n.kind == KindSymlink }

var (
	devCounter    atomic.Uint64
	inoCounter    atomic.Uint64
	fdCounter     atomic.Uint64
	wdCounter     atomic.Uint64
	cookieCounter atomic.Uint64
)

func nextIno() uint64 {
	return inoCounter.Add(1)
}

func nextFd() int {
	return int(fdCounter.Add(1))
}

func nextWd() int {
	return int(wdCounter.Add(1))
}

func nextCookie() uint32 {
	return uint32(cookieCounter.Add(1))
}

// NewDevice mints a fresh, process-wide-unique device id, used once per
// FileSystem instance at construction.
func NewDevice() uint64 {
	return devCounter.Add(1)
}
