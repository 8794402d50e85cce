package vfs

import "github.com/vfscore/memvfs/pkg/vfsconst"

// Chmod changes path's permission bits. Changing the mode of a file not
// owned by the effective uid requires uid 0 (§4.3); the owner may always
// chmod their own file.
func (fs *FileSystem) Chmod(path string, mode uint32) error {
	if err := fs.checkWritable("chmod", path); err != nil {
		return err
	}
	e, err := fs.resolve(path, "chmod", false)
	if err != nil {
		return err
	}
	if fs.uid != e.Node.Uid {
		if err := fs.requireRoot("chmod", path); err != nil {
			return err
		}
	}
	e.Node.Mode = (e.Node.Mode &^ 0o7777) | (mode & 0o7777)
	e.Node.CtimeMs = nowMs()
	fs.notify(e.Node, vfsconst.IN_ATTRIB, "", 0)
	return nil
}

// Chown changes path's owner and group, following a trailing symlink.
// Changing the ownership of a file not owned by the effective uid
// requires uid 0; the owner may always chown their own file.
func (fs *FileSystem) Chown(path string, uid, gid uint32) error {
	return fs.chown(path, uid, gid, false)
}

// Lchown is Chown without following a trailing symlink.
func (fs *FileSystem) Lchown(path string, uid, gid uint32) error {
	return fs.chown(path, uid, gid, true)
}

func (fs *FileSystem) chown(path string, uid, gid uint32, noFollow bool) error {
	syscallName := "chown"
	if noFollow {
		syscallName = "lchown"
	}
	if err := fs.checkWritable(syscallName, path); err != nil {
		return err
	}
	e, err := fs.resolve(path, syscallName, noFollow)
	if err != nil {
		return err
	}
	if fs.uid != e.Node.Uid {
		if err := fs.requireRoot(syscallName, path); err != nil {
			return err
		}
	}
	e.Node.Uid = uid
	e.Node.Gid = gid
	e.Node.CtimeMs = nowMs()
	fs.notify(e.Node, vfsconst.IN_ATTRIB, "", 0)
	return nil
}

// Readlink returns a symlink's verbatim target string.
func (fs *FileSystem) Readlink(path string) (string, error) {
	e, err := fs.resolve(path, "readlink", true)
	if err != nil {
		return "", err
	}
	if !e.Node.IsSymlink() {
		return "", newErr(EINVAL, "readlink", path)
	}
	return e.Node.symlink.target, nil
}

// Access checks whether the effective credentials have mode (a
// combination of F_OK/R_OK/W_OK/X_OK) against path, following symlinks.
func (fs *FileSystem) Access(path string, mode uint32) error {
	e, err := fs.resolve(path, "access", false)
	if err != nil {
		return err
	}
	if mode == fOK {
		return nil
	}
	return fs.checkAccess(e.Node, mode, "access", path)
}
