package vfs

import (
	"strings"

	"github.com/vfscore/memvfs/pkg/pathutil"
	"github.com/vfscore/memvfs/pkg/vfsconst"
)

// materializeMount lists a mounted directory's source exactly once,
// minting a child inode per entry (stat'd once to classify file vs.
// directory) and clearing the source/resolver pair afterwards, per the
// §3 "no materialised content yet" invariant. Mirrors the structural
// role of the teacher's vfs.VFS injected interface (pkg/vfs/interface.go)
// narrowed to stat/readdir/readFile.
func (fs *FileSystem) materializeMount(n *Inode) error {
	d := n.dir
	names, err := d.resolver.ReaddirSync(d.source)
	if err != nil {
		return newErr(ENOENT, "readdir", d.source)
	}
	for _, name := range names {
		childSource := joinSource(d.source, name)
		mode, _, err := d.resolver.StatSync(childSource)
		if err != nil {
			continue
		}
		var child *Inode
		if mode&vfsconst.S_IFDIR != 0 {
			child = fs.newDirInode(mode&0o777, n.Uid, n.Gid)
			child.dir.source = childSource
			child.dir.resolver = d.resolver
		} else {
			child = fs.newFileInode(mode&0o777, n.Uid, n.Gid)
			child.file.source = childSource
			child.file.resolver = d.resolver
		}
		fs.insertChild(n, name, child)
	}
	d.source = ""
	d.resolver = nil
	return nil
}

func joinSource(source, name string) string {
	if source == "" {
		return name
	}
	return strings.TrimSuffix(source, "/") + "/" + name
}

// Mount creates a directory inode at target whose contents are lazily
// faulted in from resolver on first listing or read (§4.9). Mounting a
// brand new filesystem root (a root-name target with no existing root
// map entry) requires uid 0, the same as Mkdir of a root.
func (fs *FileSystem) Mount(source, target string, resolver FileSystemResolver, mode uint32) error {
	if err := fs.checkWritable("mount", target); err != nil {
		return err
	}
	if pathutil.IsRoot(target) {
		norm := pathutil.Normalize(target)
		if _, exists := fs.roots[norm]; exists {
			return newErr(EEXIST, "mount", target)
		}
		if err := fs.requireRoot("mount", target); err != nil {
			return err
		}
		node := fs.newDirInode(mode&modePerm, fs.uid, fs.gid)
		node.dir.source = source
		node.dir.resolver = resolver
		fs.roots[norm] = node
		return nil
	}
	parent, base, err := fs.resolveParentDir(target, "mount")
	if err != nil {
		return err
	}
	if _, exists := fs.lookupChild(parent, base); exists {
		return newErr(EEXIST, "mount", target)
	}
	if err := fs.checkAccess(parent, wOK, "mount", target); err != nil {
		return err
	}

	node := fs.newDirInode(mode&modePerm, fs.uid, fs.gid)
	node.dir.source = source
	node.dir.resolver = resolver
	fs.insertChild(parent, base, node)
	fs.bumpDirTimes(parent)
	fs.notify(parent, vfsconst.IN_CREATE|vfsconst.IN_ISDIR, base, 0)
	return nil
}

func (fs *FileSystem) bumpDirTimes(n *Inode) {
	now := nowMs()
	n.MtimeMs = now
	n.CtimeMs = now
}
