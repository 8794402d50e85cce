// Package bulkapply applies a declarative FileMap tree to a *vfs.FileSystem
// in one pass: directories and files first, then symlinks, hard links, and
// mounts once every target they might reference exists.
package bulkapply

import (
	"errors"
	"fmt"

	"github.com/vfscore/memvfs/pkg/pathutil"
	"github.com/vfscore/memvfs/pkg/vfs"
)

// MountSpec is the mount entry of a tagged Node. Resolver has no YAML
// representation; a fixture loaded from YAML falls back to
// ApplyOptions.Resolver at apply time.
type MountSpec struct {
	Source   string
	Resolver vfs.FileSystemResolver
}

// Node is one entry of a FileMap. Exactly one action applies: Remove,
// then Link, Symlink, Mount, Directory/Children, in that priority order
// when more than one is set, with Data written as a regular file when
// none of them is.
type Node struct {
	Remove    bool
	Data      []byte
	Children  FileMap
	Directory bool
	Link      string
	Symlink   string
	Mount     *MountSpec

	Uid  *uint32
	Gid  *uint32
	Mode *uint32
	Meta map[string]any
}

// FileMap is a name -> Node mapping: a null/absent entry removes the
// path, a byte string writes a file, a nested map mkdirps a directory and
// recurses, and a tagged Node carries an explicit Directory/Link/Symlink/
// Mount variant plus optional uid/gid/mode/meta (§4.10).
type FileMap map[string]Node

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Resolver is used for any Mount node whose own Resolver is nil —
	// the case for every mount parsed from YAML, since a resolver isn't
	// a serialisable value.
	Resolver vfs.FileSystemResolver

	// Uid, Gid, Mode are defaults for nodes that don't set their own.
	Uid, Gid uint32
	Mode     uint32
}

type deferredOp struct {
	kind string // "link", "symlink", "mount"
	path string
	node Node
}

// Apply walks tree and realises it under root in fs. Directories and
// files are created in the first pass; symlinks, hard links, and mounts
// are deferred to a second pass so their targets already exist (§4.10).
func Apply(fs *vfs.FileSystem, root string, tree FileMap, opts ApplyOptions) error {
	if err := mkdirAll(fs, root, opts.Mode); err != nil && !errors.Is(err, vfs.ErrExist) {
		return err
	}
	var pending []deferredOp
	if err := applyTree(fs, root, tree, opts, &pending); err != nil {
		return err
	}
	for _, op := range pending {
		if err := applyDeferred(fs, op, opts); err != nil {
			return err
		}
	}
	return nil
}

func applyTree(fs *vfs.FileSystem, dir string, tree FileMap, opts ApplyOptions, pending *[]deferredOp) error {
	for name, node := range tree {
		path := pathutil.Combine(dir, name)

		switch {
		case node.Remove:
			if pathutil.IsRoot(path) {
				return fmt.Errorf("bulkapply: cannot remove root %q", path)
			}
			if err := rimraf(fs, path); err != nil {
				return err
			}

		case node.Link != "":
			*pending = append(*pending, deferredOp{kind: "link", path: path, node: node})

		case node.Symlink != "":
			*pending = append(*pending, deferredOp{kind: "symlink", path: path, node: node})

		case node.Mount != nil:
			*pending = append(*pending, deferredOp{kind: "mount", path: path, node: node})

		case node.Directory || node.Children != nil:
			mode := opts.Mode
			if node.Mode != nil {
				mode = *node.Mode
			}
			if err := mkdirAll(fs, path, mode); err != nil && !errors.Is(err, vfs.ErrExist) {
				return err
			}
			applyOwnership(fs, path, node, opts)
			if err := applyTree(fs, path, node.Children, opts, pending); err != nil {
				return err
			}

		default:
			mode := opts.Mode
			if node.Mode != nil {
				mode = *node.Mode
			}
			if err := fs.WriteFile(path, node.Data, mode); err != nil {
				return err
			}
			applyOwnership(fs, path, node, opts)
		}
	}
	return nil
}

func applyDeferred(fs *vfs.FileSystem, op deferredOp, opts ApplyOptions) error {
	switch op.kind {
	case "link":
		if pathutil.IsRoot(op.path) {
			return fmt.Errorf("bulkapply: cannot hard-link over root %q", op.path)
		}
		return fs.Link(op.node.Link, op.path)
	case "symlink":
		if pathutil.IsRoot(op.path) {
			return fmt.Errorf("bulkapply: cannot symlink over root %q", op.path)
		}
		return fs.Symlink(op.node.Symlink, op.path)
	case "mount":
		resolver := op.node.Mount.Resolver
		if resolver == nil {
			resolver = opts.Resolver
		}
		if resolver == nil {
			return fmt.Errorf("bulkapply: mount at %q has no resolver", op.path)
		}
		mode := opts.Mode
		if op.node.Mode != nil {
			mode = *op.node.Mode
		}
		return fs.Mount(op.node.Mount.Source, op.path, resolver, mode)
	}
	return nil
}

func applyOwnership(fs *vfs.FileSystem, path string, node Node, opts ApplyOptions) {
	if node.Uid == nil && node.Gid == nil {
		return
	}
	uid, gid := opts.Uid, opts.Gid
	if node.Uid != nil {
		uid = *node.Uid
	}
	if node.Gid != nil {
		gid = *node.Gid
	}
	fs.Chown(path, uid, gid)
}

func mkdirAll(fs *vfs.FileSystem, path string, mode uint32) error {
	if pathutil.IsRoot(path) {
		return fs.Mkdir(path, mode)
	}
	parent := pathutil.Dirname(path)
	if !pathutil.IsRoot(parent) {
		if err := mkdirAll(fs, parent, mode); err != nil && !errors.Is(err, vfs.ErrExist) {
			return err
		}
	}
	return fs.Mkdir(path, mode)
}

// rimraf recursively removes path: a directory's children first, then
// the directory itself, or a single unlink for anything else.
func rimraf(fs *vfs.FileSystem, path string) error {
	st, err := fs.Lstat(path)
	if err != nil {
		if errors.Is(err, vfs.ErrNoEnt) {
			return nil
		}
		return err
	}
	if !st.IsDir() {
		return fs.Unlink(path)
	}
	names, err := listDir(fs, path)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := rimraf(fs, pathutil.Combine(path, name)); err != nil {
			return err
		}
	}
	return fs.Rmdir(path)
}

func listDir(fs *vfs.FileSystem, path string) ([]string, error) {
	return fs.Readdir(path)
}
