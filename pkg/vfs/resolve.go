package vfs

import "github.com/vfscore/memvfs/pkg/pathutil"

const maxSymlinkDepth = 40

// Entry is the result of resolving a path: the absolute path it named,
// its final segment, the parent directory inode, and the target inode.
type Entry struct {
	Path     string
	Basename string
	Parent   *Inode
	Node     *Inode
}

func (fs *FileSystem) absolutePath(path string) (string, error) {
	if pathutil.IsAbsolute(path) {
		return pathutil.Normalize(path), nil
	}
	if fs.cwd == "" {
		return "", newErr(ENOENT, "resolve", path)
	}
	return pathutil.Resolve(fs.cwd, path), nil
}

// resolve walks path to an Entry, expanding symlinks unless noFollow is
// set for the final segment. syscallName labels any error produced.
func (fs *FileSystem) resolve(path, syscallName string, noFollow bool) (*Entry, error) {
	abs, err := fs.absolutePath(path)
	if err != nil {
		return nil, err
	}
	return fs.resolveWalk(abs, syscallName, noFollow, 0)
}

func (fs *FileSystem) resolveWalk(absPath, syscallName string, noFollow bool, depth int) (*Entry, error) {
	if depth >= maxSymlinkDepth {
		return nil, newErr(ELOOP, syscallName, absPath)
	}

	parsed := pathutil.Parse(absPath)
	root, ok := fs.roots[parsed.Root]
	if !ok {
		return nil, newErr(ENOENT, syscallName, absPath)
	}

	current := root
	segments := parsed.Segments

	for i, seg := range segments {
		isLast := i == len(segments)-1

		if err := fs.materializeDir(current); err != nil {
			return nil, err
		}
		if !current.IsDir() {
			return nil, newErr(ENOTDIR, syscallName, absPath)
		}

		child, found := fs.lookupChild(current, seg)
		if !found {
			return nil, newErr(ENOENT, syscallName, absPath)
		}

		if child.IsSymlink() && !(noFollow && isLast) {
			prefix := pathutil.Format(pathutil.Parsed{Root: parsed.Root, Segments: segments[:i]})
			newPath := pathutil.Resolve(prefix, child.symlink.target)
			if !pathutil.IsAbsolute(newPath) {
				return nil, newErr(ENOENT, syscallName, absPath)
			}
			newParsed := pathutil.Parse(newPath)
			combined := make([]string, 0, len(newParsed.Segments)+len(segments)-i-1)
			combined = append(combined, newParsed.Segments...)
			combined = append(combined, segments[i+1:]...)
			restarted := pathutil.Format(pathutil.Parsed{Root: newParsed.Root, Segments: combined})
			return fs.resolveWalk(restarted, syscallName, noFollow, depth+1)
		}

		if !isLast {
			if !child.IsDir() {
				return nil, newErr(ENOTDIR, syscallName, absPath)
			}
			if err := fs.checkAccess(child, xOK, syscallName, absPath); err != nil {
				return nil, err
			}
			current = child
			continue
		}

		return &Entry{Path: absPath, Basename: seg, Parent: current, Node: child}, nil
	}

	// Zero segments: the path names a root directly.
	if !current.IsDir() {
		return nil, newErr(ENOTDIR, syscallName, absPath)
	}
	return &Entry{Path: absPath, Basename: "", Parent: current, Node: current}, nil
}

// lookupChild materialises dir's children if needed and finds name under
// the filesystem's comparator.
func (fs *FileSystem) lookupChild(dir *Inode, name string) (*Inode, bool) {
	if err := fs.materializeDir(dir); err != nil {
		return nil, false
	}
	for _, e := range dir.dir.children {
		if pathutil.EqualNames(e.name, name, fs.caseInsensitive) {
			return e.node, true
		}
	}
	return nil, false
}

func (fs *FileSystem) insertChild(dir *Inode, name string, node *Inode) {
	dir.dir.children = append(dir.dir.children, dirEntry{name: name, node: node})
	fs.sortChildren(dir)
}

func (fs *FileSystem) sortChildren(dir *Inode) {
	children := dir.dir.children
	less := pathutil.CaseSensitive
	if fs.caseInsensitive {
		less = pathutil.CaseInsensitive
	}
	for i := 1; i < len(children); i++ {
		j := i
		for j > 0 && less(children[j].name, children[j-1].name) {
			children[j], children[j-1] = children[j-1], children[j]
			j--
		}
	}
}

func (fs *FileSystem) removeChild(dir *Inode, name string) {
	children := dir.dir.children
	for i, e := range children {
		if pathutil.EqualNames(e.name, name, fs.caseInsensitive) {
			dir.dir.children = append(children[:i], children[i+1:]...)
			return
		}
	}
}

// materializeDir faults in a directory's children exactly once, either
// from a mount source (whose source/resolver pair is then cleared, per
// the materialisation invariant of §3) or from a shadow root (which stays
// set so metadata lookups keep falling through it). A children slice that
// is non-nil marks the directory as already faulted in, even once every
// child has since been removed.
func (fs *FileSystem) materializeDir(n *Inode) error {
	if !n.IsDir() {
		return nil
	}
	d := n.dir
	if d.children != nil {
		return nil
	}
	if d.resolver != nil {
		return fs.materializeMount(n)
	}
	if d.shadowRoot != nil {
		return fs.materializeShadowDir(n)
	}
	return nil
}
