package vfs

// MakeReadonly freezes fs so every mutating call fails EROFS from then
// on. A frozen filesystem is the only kind Shadow accepts as a base,
// since a mutable base would invalidate snapshots layered on top of it.
func (fs *FileSystem) MakeReadonly() {
	fs.readonly = true
}

// Shadow creates a new, independent FileSystem whose roots lazily fault
// metadata and content through fs (§4.8). fs must already be frozen via
// MakeReadonly. caseInsensitive must match fs's own comparator: a
// mismatched one would make lookups disagree between the two layers of
// the same directory tree, so Shadow rejects it outright rather than
// silently using the wrong comparator on one side.
func (fs *FileSystem) Shadow(caseInsensitive bool) (*FileSystem, error) {
	if !fs.readonly {
		return nil, newErr(EINVAL, "shadow", "")
	}
	if caseInsensitive != fs.caseInsensitive {
		return nil, newErr(EINVAL, "shadow", "")
	}

	child := &FileSystem{
		dev:             NewDevice(),
		caseInsensitive: caseInsensitive,
		uid:             fs.uid,
		gid:             fs.gid,
		umask:           fs.umask,
		cwd:             fs.cwd,
		roots:           make(map[string]*Inode),
		descriptors:     make(map[int]descriptor),
		shadowParent:    fs,
		timers:          fs.timers,
		pollWatches:     make(map[string]*pollWatch),
		debug:           fs.debug,
	}
	for name, root := range fs.roots {
		child.roots[name] = child.shadowOf(root)
	}
	return child, nil
}

// shadowOf mints a new inode with n's header copied (mode, ownership,
// timestamps) and an empty payload pointing back at n as its shadow
// root, to be faulted in lazily on first read.
func (fs *FileSystem) shadowOf(n *Inode) *Inode {
	child := &Inode{
		fs:          fs,
		Dev:         fs.dev,
		Ino:         nextIno(),
		Mode:        n.Mode,
		Nlink:       n.Nlink,
		Uid:         n.Uid,
		Gid:         n.Gid,
		AtimeMs:     n.AtimeMs,
		MtimeMs:     n.MtimeMs,
		CtimeMs:     n.CtimeMs,
		BirthtimeMs: n.BirthtimeMs,
		kind:        n.kind,
	}
	switch n.kind {
	case KindDir:
		child.dir = &dirData{shadowRoot: n}
	case KindFile:
		child.file = &fileData{shadowRoot: n}
	case KindSymlink:
		child.symlink = &symlinkData{shadowRoot: n, target: n.symlink.target}
	}
	return child
}

// materializeShadowDir faults n's children in from its shadow root,
// minting one shadow inode per entry found there. The shadow root
// reference on n.dir is left set afterwards so metadata lookups keep
// falling through it even once children are cached.
func (fs *FileSystem) materializeShadowDir(n *Inode) error {
	root := n.dir.shadowRoot
	parentFS := fs.shadowParent
	if err := parentFS.materializeDir(root); err != nil {
		return err
	}
	for _, e := range root.dir.children {
		fs.insertChild(n, e.name, fs.shadowOf(e.node))
	}
	return nil
}
