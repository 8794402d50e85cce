package vfs

// materializeFile faults in a regular file's byte buffer exactly once,
// either from a mount source (cleared after use per the §3 mount
// invariant) or by copying through a shadow-root chain (the shadow
// back-reference is kept afterwards so metadata lookups can keep
// falling through it; only content is cached locally).
func (fs *FileSystem) materializeFile(n *Inode) error {
	if n.kind != KindFile {
		return nil
	}
	f := n.file
	if f.data != nil {
		return nil
	}
	if f.resolver != nil {
		data, err := f.resolver.ReadFileSync(f.source)
		if err != nil {
			return newErr(ENOENT, "read", f.source)
		}
		f.data = data
		f.source = ""
		f.resolver = nil
		return nil
	}
	if f.shadowRoot != nil {
		if err := fs.materializeFile(f.shadowRoot); err != nil {
			return err
		}
		f.data = append([]byte(nil), f.shadowRoot.file.data...)
		return nil
	}
	f.data = []byte{}
	return nil
}

// LookupMeta reads a metadata key from n, falling through to its shadow
// root (if any) when n has no local entry, per §4.8's "metadata is
// layered" rule.
func (n *Inode) LookupMeta(key string) (any, bool) {
	if n.Meta != nil {
		if v, ok := n.Meta[key]; ok {
			return v, true
		}
	}
	switch n.kind {
	case KindFile:
		if n.file != nil && n.file.shadowRoot != nil {
			return n.file.shadowRoot.LookupMeta(key)
		}
	case KindDir:
		if n.dir != nil && n.dir.shadowRoot != nil {
			return n.dir.shadowRoot.LookupMeta(key)
		}
	case KindSymlink:
		if n.symlink != nil && n.symlink.shadowRoot != nil {
			return n.symlink.shadowRoot.LookupMeta(key)
		}
	}
	return nil, false
}

// SetMeta sets a metadata key directly on n (never on a shadow root,
// which is frozen).
func (n *Inode) SetMeta(key string, value any) {
	if n.Meta == nil {
		n.Meta = make(MetaBag)
	}
	n.Meta[key] = value
}
