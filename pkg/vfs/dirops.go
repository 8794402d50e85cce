package vfs

import (
	"github.com/vfscore/memvfs/pkg/pathutil"
	"github.com/vfscore/memvfs/pkg/vfsconst"
)

// resolveParentDir splits path into its parent directory inode and final
// segment, resolving symlinks along the parent chain but never the final
// segment itself — the shape every directory-mutating operation needs
// before it can check access and insert or remove a child.
func (fs *FileSystem) resolveParentDir(path, syscallName string) (*Inode, string, error) {
	abs, err := fs.absolutePath(path)
	if err != nil {
		return nil, "", err
	}
	base := pathutil.Basename(abs)
	if base == "" {
		return nil, "", newErr(EEXIST, syscallName, path)
	}
	parent, err := fs.resolveWalk(pathutil.Dirname(abs), syscallName, false, 0)
	if err != nil {
		return nil, "", err
	}
	if !parent.Node.IsDir() {
		return nil, "", newErr(ENOTDIR, syscallName, path)
	}
	return parent.Node, base, nil
}

// inheritFromParent applies the parent-SGID inheritance rule shared by
// mkdir and open(O_CREAT): a freshly created child whose parent has SGID
// set takes the parent's gid and carries SGID itself, rather than the
// creating process's gid.
func inheritFromParent(parent *Inode, perm uint32, requestedGid uint32) (mode uint32, gid uint32) {
	mode = perm
	gid = requestedGid
	if parent.Mode&sISGID != 0 {
		gid = parent.Gid
		mode |= sISGID
	}
	return mode, gid
}

// Readdir returns the names of path's immediate children, in the
// filesystem's comparator order, materialising them first if path is a
// not-yet-faulted-in mount or shadow directory.
func (fs *FileSystem) Readdir(path string) ([]string, error) {
	e, err := fs.resolve(path, "readdir", false)
	if err != nil {
		return nil, err
	}
	if !e.Node.IsDir() {
		return nil, newErr(ENOTDIR, "readdir", path)
	}
	if err := fs.checkAccess(e.Node, rOK, "readdir", path); err != nil {
		return nil, err
	}
	if err := fs.materializeDir(e.Node); err != nil {
		return nil, err
	}
	names := make([]string, len(e.Node.dir.children))
	for i, c := range e.Node.dir.children {
		names[i] = c.name
	}
	fs.touchAtime(e.Node)
	return names, nil
}

// Mkdir creates an empty directory at path (§4.4). Creating a brand new
// filesystem root (a root-name path with no existing entry in the root
// map, e.g. a fresh "c:/" or "//host/share/") requires uid 0.
func (fs *FileSystem) Mkdir(path string, perm uint32) error {
	if err := fs.checkWritable("mkdir", path); err != nil {
		return err
	}
	if pathutil.IsRoot(path) {
		norm := pathutil.Normalize(path)
		if _, exists := fs.roots[norm]; exists {
			return newErr(EEXIST, "mkdir", path)
		}
		if err := fs.requireRoot("mkdir", path); err != nil {
			return err
		}
		fs.roots[norm] = fs.newDirInode(perm&^fs.umask&0o777, fs.uid, fs.gid)
		return nil
	}
	parent, base, err := fs.resolveParentDir(path, "mkdir")
	if err != nil {
		return err
	}
	if _, exists := fs.lookupChild(parent, base); exists {
		return newErr(EEXIST, "mkdir", path)
	}
	if err := fs.checkAccess(parent, wOK, "mkdir", path); err != nil {
		return err
	}
	mode, gid := inheritFromParent(parent, perm&^fs.umask&0o1777, fs.gid)
	node := fs.newDirInode(mode, fs.uid, gid)
	fs.insertChild(parent, base, node)
	fs.bumpDirTimes(parent)
	fs.notify(parent, vfsconst.IN_CREATE|vfsconst.IN_ISDIR, base, 0)
	return nil
}

// Rmdir removes an empty directory at path (§4.4). ENOTEMPTY if it has
// children.
func (fs *FileSystem) Rmdir(path string) error {
	if err := fs.checkWritable("rmdir", path); err != nil {
		return err
	}
	e, err := fs.resolve(path, "rmdir", true)
	if err != nil {
		return err
	}
	if !e.Node.IsDir() {
		return newErr(ENOTDIR, "rmdir", path)
	}
	if err := fs.materializeDir(e.Node); err != nil {
		return err
	}
	if len(e.Node.dir.children) > 0 {
		return newErr(ENOTEMPTY, "rmdir", path)
	}
	if err := fs.checkAccess(e.Parent, wOK, "rmdir", path); err != nil {
		return err
	}
	fs.removeChild(e.Parent, e.Basename)
	e.Node.Nlink--
	fs.bumpDirTimes(e.Parent)
	fs.notify(e.Parent, vfsconst.IN_DELETE|vfsconst.IN_ISDIR, e.Basename, 0)
	fs.notify(e.Node, vfsconst.IN_DELETE_SELF, "", 0)
	if e.Node.Nlink == 0 {
		fs.removeAllWatches(e.Node)
	}
	return nil
}

// Link creates a new hard link, newPath, for the existing non-directory
// inode at oldPath (§4.4). Hard links to directories are never allowed.
func (fs *FileSystem) Link(oldPath, newPath string) error {
	if err := fs.checkWritable("link", newPath); err != nil {
		return err
	}
	old, err := fs.resolve(oldPath, "link", true)
	if err != nil {
		return err
	}
	if old.Node.IsDir() {
		return newErr(EPERM, "link", oldPath)
	}
	parent, base, err := fs.resolveParentDir(newPath, "link")
	if err != nil {
		return err
	}
	if _, exists := fs.lookupChild(parent, base); exists {
		return newErr(EEXIST, "link", newPath)
	}
	if err := fs.checkAccess(parent, wOK, "link", newPath); err != nil {
		return err
	}
	old.Node.Nlink++
	old.Node.CtimeMs = nowMs()
	fs.insertChild(parent, base, old.Node)
	fs.bumpDirTimes(parent)
	fs.notify(parent, vfsconst.IN_CREATE, base, 0)
	fs.notify(old.Node, vfsconst.IN_ATTRIB, "", 0)
	return nil
}

// Unlink removes the directory entry at path, decrementing the target
// inode's nlink and tearing its watches down once it reaches zero (§4.4).
func (fs *FileSystem) Unlink(path string) error {
	if err := fs.checkWritable("unlink", path); err != nil {
		return err
	}
	e, err := fs.resolve(path, "unlink", true)
	if err != nil {
		return err
	}
	if e.Node.IsDir() {
		return newErr(EISDIR, "unlink", path)
	}
	if err := fs.checkAccess(e.Parent, wOK, "unlink", path); err != nil {
		return err
	}
	fs.removeChild(e.Parent, e.Basename)
	e.Node.Nlink--
	fs.bumpDirTimes(e.Parent)
	fs.notify(e.Parent, vfsconst.IN_DELETE, e.Basename, 0)
	fs.notify(e.Node, vfsconst.IN_ATTRIB, "", 0)
	if e.Node.Nlink == 0 {
		fs.notify(e.Node, vfsconst.IN_DELETE_SELF, "", 0)
		fs.removeAllWatches(e.Node)
	}
	return nil
}

// Symlink creates a new symlink at linkPath pointing at target (§4.4).
// target is stored verbatim and resolved lazily whenever the link is
// traversed.
func (fs *FileSystem) Symlink(target, linkPath string) error {
	if err := fs.checkWritable("symlink", linkPath); err != nil {
		return err
	}
	parent, base, err := fs.resolveParentDir(linkPath, "symlink")
	if err != nil {
		return err
	}
	if _, exists := fs.lookupChild(parent, base); exists {
		return newErr(EEXIST, "symlink", linkPath)
	}
	if err := fs.checkAccess(parent, wOK, "symlink", linkPath); err != nil {
		return err
	}
	node := fs.newSymlinkInode(target, fs.uid, fs.gid)
	fs.insertChild(parent, base, node)
	fs.bumpDirTimes(parent)
	// IN_ISDIR on a symlink creation looks wrong but mirrors the modelled
	// source system's behaviour and must be preserved (§4.4).
	fs.notify(parent, vfsconst.IN_CREATE|vfsconst.IN_ISDIR, base, 0)
	return nil
}

// Rename moves oldPath to newPath, displacing and unlinking any existing
// entry at newPath. An existing entry must agree in kind with the moved
// one (a file never replaces a directory or vice versa), and an existing
// directory there must be empty. It emits IN_MOVED_FROM on the source
// parent, IN_MOVED_TO on the destination parent, and IN_MOVE_SELF on the
// moved inode itself, all with one freshly minted cookie (§4.4, §8
// cookie-ordering property).
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	if err := fs.checkWritable("rename", oldPath); err != nil {
		return err
	}
	oldParent, oldBase, err := fs.resolveParentDir(oldPath, "rename")
	if err != nil {
		return err
	}
	moved, found := fs.lookupChild(oldParent, oldBase)
	if !found {
		return newErr(ENOENT, "rename", oldPath)
	}
	newParent, newBase, err := fs.resolveParentDir(newPath, "rename")
	if err != nil {
		return err
	}
	if err := fs.checkAccess(oldParent, wOK, "rename", oldPath); err != nil {
		return err
	}
	if err := fs.checkAccess(newParent, wOK, "rename", newPath); err != nil {
		return err
	}

	if existing, exists := fs.lookupChild(newParent, newBase); exists {
		if existing == moved {
			return nil
		}
		if existing.IsDir() != moved.IsDir() {
			if existing.IsDir() {
				return newErr(EISDIR, "rename", newPath)
			}
			return newErr(ENOTDIR, "rename", newPath)
		}
		if existing.IsDir() {
			if err := fs.materializeDir(existing); err != nil {
				return err
			}
			if len(existing.dir.children) > 0 {
				return newErr(ENOTEMPTY, "rename", newPath)
			}
		}
		fs.removeChild(newParent, newBase)
		existing.Nlink--
		if existing.Nlink == 0 {
			fs.notify(existing, vfsconst.IN_DELETE_SELF, "", 0)
			fs.removeAllWatches(existing)
		}
	}

	fs.removeChild(oldParent, oldBase)
	fs.insertChild(newParent, newBase, moved)

	cookie := NewCookie()
	isDirMask := uint32(0)
	if moved.IsDir() {
		isDirMask = vfsconst.IN_ISDIR
	}
	fs.bumpDirTimes(oldParent)
	fs.bumpDirTimes(newParent)
	fs.notify(oldParent, vfsconst.IN_MOVED_FROM|isDirMask, oldBase, cookie)
	fs.notify(newParent, vfsconst.IN_MOVED_TO|isDirMask, newBase, cookie)
	fs.notify(moved, vfsconst.IN_MOVE_SELF, "", cookie)
	return nil
}
