package vfs

import (
	"github.com/zeebo/blake3"

	"github.com/vfscore/memvfs/pkg/vfsconst"
)

// openFile is one entry in the open-file-description table: a cursor and
// flags bound to an inode, plus (once the first write lands) a private
// staged copy of its bytes. The staged copy is published back onto the
// inode only at fsync/close — the in-memory analogue of the teacher's
// OverlayFS.copyUp (pkg/overlay/overlay.go).
type openFile struct {
	handle int
	node   *Inode
	parent *Inode
	name   string
	flags  OpenFlags
	offset int64

	staged []byte
	dirty  bool
}

func (f *openFile) fd() int { return f.handle }

// Open resolves path under flags, optionally creating it (O_CREAT),
// truncating it (O_TRUNC), and returns a file descriptor for Read/Write/
// Truncate/Fsync/Close (§4.5).
func (fs *FileSystem) Open(path string, flags OpenFlags, perm uint32) (int, error) {
	noFollow := flags.isNoFollow()
	e, err := fs.resolve(path, "open", noFollow)
	if err != nil {
		if e2, ok := err.(*Error); !ok || e2.Code != ENOENT || !flags.isCreate() {
			return 0, err
		}
		parent, base, perr := fs.resolveParentDir(path, "open")
		if perr != nil {
			return 0, perr
		}
		if werr := fs.checkWritable("open", path); werr != nil {
			return 0, werr
		}
		if werr := fs.checkAccess(parent, wOK, "open", path); werr != nil {
			return 0, werr
		}
		mode, gid := inheritFromParent(parent, perm&^fs.umask&0o1777, fs.gid)
		node := fs.newFileInode(mode, fs.uid, gid)
		fs.insertChild(parent, base, node)
		fs.bumpDirTimes(parent)
		fs.notify(parent, vfsconst.IN_CREATE, base, 0)
		return fs.openNode(node, parent, base, flags&^O_TRUNC, true)
	}

	if flags.isExcl() && flags.isCreate() {
		return 0, newErr(EEXIST, "open", path)
	}
	if e.Node.IsDir() {
		if flags.isWrite() {
			return 0, newErr(EISDIR, "open", path)
		}
		if flags.isDirOnly() {
			return fs.openNode(e.Node, e.Parent, e.Basename, flags, false)
		}
	} else if flags.isDirOnly() {
		return 0, newErr(ENOTDIR, "open", path)
	}

	accessMode := uint32(rOK)
	if flags.isWrite() {
		accessMode = wOK
		if err := fs.checkWritable("open", path); err != nil {
			return 0, err
		}
	}
	if err := fs.checkAccess(e.Node, accessMode, "open", path); err != nil {
		return 0, err
	}
	return fs.openNode(e.Node, e.Parent, e.Basename, flags, false)
}

// openNode binds a descriptor to node. created is true only for the
// O_CREAT branch, where O_TRUNC is implicitly a no-op against an inode
// that is already empty. For an existing file, O_TRUNC stages an empty
// buffer on the descriptor; the inode keeps its bytes until that buffer
// is published by Fsync/Close.
func (fs *FileSystem) openNode(node, parent *Inode, name string, flags OpenFlags, created bool) (int, error) {
	f := &openFile{handle: nextFd(), node: node, parent: parent, name: name, flags: flags}
	if !created && flags.isAppend() && !flags.isTrunc() && node.IsRegular() {
		if err := fs.materializeFile(node); err != nil {
			return 0, err
		}
		f.offset = int64(len(node.file.data))
	}
	fs.descriptors[f.handle] = f
	fs.notify(parent, vfsconst.IN_OPEN, name, 0)
	fs.notify(node, vfsconst.IN_OPEN, "", 0)
	if !created && flags.isTrunc() && node.IsRegular() {
		f.staged = []byte{}
		f.dirty = true
	}
	return f.handle, nil
}

func (fs *FileSystem) getOpenFile(fd int) (*openFile, error) {
	d, ok := fs.descriptors[fd]
	if !ok {
		return nil, newErr(EBADF, "fd", "")
	}
	f, ok := d.(*openFile)
	if !ok {
		return nil, newErr(EBADF, "fd", "")
	}
	return f, nil
}

// Read copies up to len(buf) bytes starting at the descriptor's current
// offset, advancing it, and returns the count actually read.
func (fs *FileSystem) Read(fd int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	f, err := fs.getOpenFile(fd)
	if err != nil {
		return 0, err
	}
	if !f.flags.isRead() {
		return 0, newErr(EBADF, "read", "")
	}
	data := f.staged
	if data == nil {
		if err := fs.materializeFile(f.node); err != nil {
			return 0, err
		}
		data = f.node.file.data
	}
	if f.offset >= int64(len(data)) {
		return 0, nil
	}
	n := copy(buf, data[f.offset:])
	f.offset += int64(n)
	f.node.AtimeMs = nowMs()
	fs.notify(f.parent, vfsconst.IN_ACCESS, f.name, 0)
	fs.notify(f.node, vfsconst.IN_ACCESS, "", 0)
	return n, nil
}

// Write stages buf at the descriptor's offset (or at the current end of
// file when O_APPEND is set) into a private copy-before-write buffer,
// published onto the shared inode only on Fsync/Close (§4.5).
func (fs *FileSystem) Write(fd int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	f, err := fs.getOpenFile(fd)
	if err != nil {
		return 0, err
	}
	if !f.flags.isWrite() {
		return 0, newErr(EBADF, "write", "")
	}
	if err := fs.checkWritable("write", ""); err != nil {
		return 0, err
	}
	if f.staged == nil {
		if err := fs.materializeFile(f.node); err != nil {
			return 0, err
		}
		f.staged = append([]byte(nil), f.node.file.data...)
	}
	if f.flags.isAppend() {
		f.offset = int64(len(f.staged))
	}
	end := f.offset + int64(len(buf))
	if end > int64(len(f.staged)) {
		grown := make([]byte, end)
		copy(grown, f.staged)
		f.staged = grown
	}
	copy(f.staged[f.offset:end], buf)
	f.offset = end
	f.dirty = true
	if f.flags.isSync() {
		fs.publish(f)
	}
	return len(buf), nil
}

// publish flushes a descriptor's staged buffer onto its inode.
func (fs *FileSystem) publish(f *openFile) {
	if !f.dirty {
		return
	}
	f.node.file.data = f.staged
	f.node.MtimeMs = nowMs()
	f.node.CtimeMs = nowMs()
	f.dirty = false
	fs.notify(f.parent, vfsconst.IN_MODIFY, f.name, 0)
	fs.notify(f.node, vfsconst.IN_MODIFY, "", 0)
}

// Truncate resizes the file at path to size bytes, zero-padding if it
// grows.
func (fs *FileSystem) Truncate(path string, size int64) error {
	if err := fs.checkWritable("truncate", path); err != nil {
		return err
	}
	e, err := fs.resolve(path, "truncate", false)
	if err != nil {
		return err
	}
	if !e.Node.IsRegular() {
		return newErr(EISDIR, "truncate", path)
	}
	if err := fs.checkAccess(e.Node, wOK, "truncate", path); err != nil {
		return err
	}
	if err := fs.materializeFile(e.Node); err != nil {
		return err
	}
	e.Node.file.data = resize(e.Node.file.data, size)
	e.Node.MtimeMs = nowMs()
	e.Node.CtimeMs = nowMs()
	fs.notify(e.Node, vfsconst.IN_MODIFY, "", 0)
	return nil
}

// Ftruncate resizes the inode bound to fd to size bytes directly,
// independent of any staged write buffer, updating mtime/ctime and
// emitting IN_MODIFY (§4.5).
func (fs *FileSystem) Ftruncate(fd int, size int64) error {
	f, err := fs.getOpenFile(fd)
	if err != nil {
		return err
	}
	if !f.flags.isWrite() {
		return newErr(EBADF, "ftruncate", "")
	}
	if err := fs.checkWritable("ftruncate", ""); err != nil {
		return err
	}
	if err := fs.materializeFile(f.node); err != nil {
		return err
	}
	f.node.file.data = resize(f.node.file.data, size)
	f.node.MtimeMs = nowMs()
	f.node.CtimeMs = nowMs()
	if f.staged != nil {
		f.staged = resize(f.staged, size)
	}
	fs.notify(f.node, vfsconst.IN_MODIFY, "", 0)
	return nil
}

func resize(data []byte, size int64) []byte {
	if int64(len(data)) == size {
		return data
	}
	if size < int64(len(data)) {
		return data[:size]
	}
	grown := make([]byte, size)
	copy(grown, data)
	return grown
}

// Fsync publishes a descriptor's staged write buffer onto its inode,
// making it visible to every other resolver of the same path.
func (fs *FileSystem) Fsync(fd int) error {
	f, err := fs.getOpenFile(fd)
	if err != nil {
		return err
	}
	fs.publish(f)
	return nil
}

// Fdatasync is equivalent to Fsync for this in-memory filesystem, which
// has no metadata/data split worth skipping.
func (fs *FileSystem) Fdatasync(fd int) error {
	return fs.Fsync(fd)
}

// Close publishes any staged write and removes fd from the descriptor
// table. It does not emit IN_IGNORED on the descriptor's own watches
// (closeInotify handles that distinctly for inotify descriptors).
func (fs *FileSystem) Close(fd int) error {
	d, ok := fs.descriptors[fd]
	if !ok {
		return newErr(EBADF, "close", "")
	}
	if f, ok := d.(*openFile); ok {
		fs.publish(f)
		if f.flags.isWrite() {
			fs.notify(f.node, vfsconst.IN_CLOSE_WRITE, "", 0)
		} else {
			fs.notify(f.node, vfsconst.IN_CLOSE_NOWRITE, "", 0)
		}
	}
	if in, ok := d.(*Inotify); ok {
		fs.closeInotify(in)
		return nil
	}
	delete(fs.descriptors, fd)
	return nil
}

// ReadFile opens path read-only, reads it to completion, and closes it.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fd, err := fs.Open(path, O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer fs.Close(fd)
	f, err := fs.getOpenFile(fd)
	if err != nil {
		return nil, err
	}
	if err := fs.materializeFile(f.node); err != nil {
		return nil, err
	}
	return append([]byte(nil), f.node.file.data...), nil
}

// WriteFile opens path for writing (creating/truncating it), writes data
// in full, and closes it, publishing the result.
func (fs *FileSystem) WriteFile(path string, data []byte, perm uint32) error {
	fd, err := fs.Open(path, O_WRONLY|O_CREAT|O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer fs.Close(fd)
	_, err = fs.Write(fd, data)
	return err
}

// AppendFile opens path for appending (creating it if absent), writes
// data, and closes it.
func (fs *FileSystem) AppendFile(path string, data []byte, perm uint32) error {
	fd, err := fs.Open(path, O_WRONLY|O_CREAT|O_APPEND, perm)
	if err != nil {
		return err
	}
	defer fs.Close(fd)
	_, err = fs.Write(fd, data)
	return err
}

// ContentHash returns the blake3 digest of path's current bytes, for
// callers that need a cheap, collision-resistant fingerprint of file
// content rather than a full byte comparison (vfsctl's hash subcommand
// is one such caller).
func (fs *FileSystem) ContentHash(path string) ([32]byte, error) {
	e, err := fs.resolve(path, "hash", false)
	if err != nil {
		return [32]byte{}, err
	}
	if !e.Node.IsRegular() {
		return [32]byte{}, newErr(EISDIR, "hash", path)
	}
	if err := fs.materializeFile(e.Node); err != nil {
		return [32]byte{}, err
	}
	hasher := blake3.New()
	hasher.Write(e.Node.file.data)
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}
