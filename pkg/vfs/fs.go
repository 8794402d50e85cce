// Package vfs implements an in-memory, POSIX-like virtual filesystem: an
// inode store, a symlink-expanding path resolver, permission checks,
// directory operations, an open-file-description table with
// copy-before-write semantics, an inotify subsystem, a poll-based
// watcher, a copy-on-read shadow overlay, and a mount mechanism for
// lazily materialising content from an external resolver. Nothing in
// this package touches a real disk.
package vfs

import (
	"fmt"
	"io"
	"os"
	"time"
)

// FileSystemResolver is the injected collaborator a Mount uses to fault
// in content from a real (or otherwise external) filesystem. It mirrors
// the small stat/readdir/readFile surface the teacher's pkg/vfs.VFS
// interface exposes to pkg/overlay, narrowed to read-only materialisation.
type FileSystemResolver interface {
	StatSync(path string) (mode uint32, size int64, err error)
	ReaddirSync(path string) ([]string, error)
	ReadFileSync(path string) ([]byte, error)
}

// FileSystemTimers is the injected interval scheduler the poll watcher
// (§4.7) uses instead of owning a real timer.
type FileSystemTimers interface {
	SetInterval(cb func(), d time.Duration) (handle any)
	ClearInterval(handle any)
}

// Options configures a new FileSystem.
type Options struct {
	// CaseInsensitive fixes the directory-children comparator for the
	// lifetime of the filesystem.
	CaseInsensitive bool

	// Uid/Gid are the effective credentials permission checks run
	// against.
	Uid, Gid uint32

	// Umask masks permission bits at creation time, applied the way a
	// POSIX process umask would be.
	Umask uint32

	// Timers backs WatchFile/UnwatchFile. If nil, a real time.Ticker
	// based implementation is used.
	Timers FileSystemTimers

	// Debug, if non-nil, is the sink for debugf trace lines, which are
	// written only when the VFS_DEBUG env var is set — the same gating
	// the teacher's FUSS_DEBUG applies to pkg/tracer/log.go's debugf,
	// except scoped per-instance rather than process-global, since
	// multiple FileSystems can coexist. No operation in this package
	// calls debugf, so nothing is written to it.
	Debug io.Writer
}

// FileSystem is an in-memory virtual filesystem instance. Zero value is
// not usable; construct with New.
type FileSystem struct {
	dev             uint64
	caseInsensitive bool

	uid   uint32
	gid   uint32
	umask uint32

	cwd string

	readonly bool

	roots map[string]*Inode

	descriptors map[int]descriptor

	shadowParent *FileSystem

	timers      FileSystemTimers
	pollWatches map[string]*pollWatch

	debug io.Writer
}

// descriptor is the sum type for the descriptor table: either an
// *openFile or an *Inotify.
type descriptor interface {
	fd() int
}

var debugEnv = os.Getenv("VFS_DEBUG") != ""

func (fs *FileSystem) debugf(format string, args ...interface{}) {
	if fs.debug == nil {
		return
	}
	if !debugEnv {
		return
	}
	fmt.Fprintf(fs.debug, "[vfs] "+format+"\n", args...)
}

// New constructs a FileSystem with a single root ("/") and the given
// options.
func New(opts Options) *FileSystem {
	fs := &FileSystem{
		dev:             NewDevice(),
		caseInsensitive: opts.CaseInsensitive,
		uid:             opts.Uid,
		gid:             opts.Gid,
		umask:           opts.Umask,
		roots:           make(map[string]*Inode),
		descriptors:     make(map[int]descriptor),
		timers:          opts.Timers,
		pollWatches:     make(map[string]*pollWatch),
		debug:           opts.Debug,
	}
	if fs.timers == nil {
		fs.timers = realTimers{}
	}
	root := fs.newDirInode(0o755, opts.Uid, opts.Gid)
	fs.roots["/"] = root
	return fs
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}

func (fs *FileSystem) newBaseInode(mode uint32, uid, gid uint32) *Inode {
	now := nowMs()
	return &Inode{
		fs:          fs,
		Dev:         fs.dev,
		Ino:         nextIno(),
		Mode:        mode,
		Nlink:       1,
		Uid:         uid,
		Gid:         gid,
		AtimeMs:     now,
		MtimeMs:     now,
		CtimeMs:     now,
		BirthtimeMs: now,
	}
}

func (fs *FileSystem) newDirInode(perm uint32, uid, gid uint32) *Inode {
	n := fs.newBaseInode(maskType(KindDir)|perm, uid, gid)
	n.kind = KindDir
	n.dir = &dirData{}
	return n
}

func (fs *FileSystem) newFileInode(perm uint32, uid, gid uint32) *Inode {
	n := fs.newBaseInode(maskType(KindFile)|perm, uid, gid)
	n.kind = KindFile
	n.file = &fileData{}
	return n
}

func (fs *FileSystem) newSymlinkInode(target string, uid, gid uint32) *Inode {
	n := fs.newBaseInode(maskType(KindSymlink)|0o666, uid, gid)
	n.kind = KindSymlink
	n.symlink = &symlinkData{target: target}
	return n
}

func maskType(k Kind) uint32 {
	switch k {
	case KindDir:
		return sIFDIR
	case KindSymlink:
		return sIFLNK
	default:
		return sIFREG
	}
}

// IsReadonly reports whether the filesystem has been frozen via
// MakeReadonly.
func (fs *FileSystem) IsReadonly() bool { return fs.readonly }

func (fs *FileSystem) checkWritable(syscall, path string) error {
	if fs.readonly {
		return newErr(EROFS, syscall, path)
	}
	return nil
}

// Chdir sets the current working directory used to resolve relative
// paths. It does not check the target exists; resolution does that
// lazily on the next relative-path operation.
func (fs *FileSystem) Chdir(path string) {
	fs.cwd = path
}

// Getwd returns the current working directory, or "" if none was set
// (in which case relative paths are rejected by the resolver).
func (fs *FileSystem) Getwd() string {
	return fs.cwd
}
