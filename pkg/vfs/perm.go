package vfs

import "github.com/vfscore/memvfs/pkg/vfsconst"

const (
	fOK = vfsconst.F_OK
	rOK = vfsconst.R_OK
	wOK = vfsconst.W_OK
	xOK = vfsconst.X_OK
)

// effectiveBits computes the rwx bits that apply to the filesystem's
// effective uid/gid against n: owner bits when uid matches, group bits
// added when gid matches, other bits always added. uid == 0 is not an
// automatic pass here — callers requiring a root override (chown/chmod
// of another's file, root-only mkdir) check uid == 0 explicitly before
// ever reaching this helper (§4.3, §9 decision 2).
func (fs *FileSystem) effectiveBits(n *Inode) uint32 {
	var bits uint32
	if fs.uid == n.Uid {
		bits |= (n.Mode >> 6) & 0o7
	}
	if fs.gid == n.Gid {
		bits |= (n.Mode >> 3) & 0o7
	}
	bits |= n.Mode & 0o7
	return bits
}

func (fs *FileSystem) accessAllowed(n *Inode, mode uint32) bool {
	eff := fs.effectiveBits(n)
	return eff&mode == mode
}

// checkAccess returns an *Error coded EACCES, labelled with syscall and
// path, when the effective credentials lack mode against n.
func (fs *FileSystem) checkAccess(n *Inode, mode uint32, syscallName, path string) error {
	if fs.accessAllowed(n, mode) {
		return nil
	}
	return newErr(EACCES, syscallName, path)
}

// requireRoot enforces the operations the spec reserves for uid 0:
// chown/chmod of a file owned by someone else, and creating a
// filesystem root.
func (fs *FileSystem) requireRoot(syscallName, path string) error {
	if fs.uid == 0 {
		return nil
	}
	return newErr(EPERM, syscallName, path)
}
