package vfs

import "github.com/vfscore/memvfs/pkg/vfsconst"

// inStoredMask is what inotify_add_watch actually keeps on a watch:
// the requested event bits plus IN_ONESHOT. IN_MASK_ADD, IN_DONT_FOLLOW,
// and IN_ONLYDIR are consumed at add-time and never stored.
const inStoredMask = vfsconst.IN_ALL_EVENTS | vfsconst.IN_ONESHOT

// InotifyEvent is one delivered notification.
type InotifyEvent struct {
	Wd     int
	Mask   uint32
	Name   string
	Cookie uint32
}

// Inotify is an inotify descriptor: a watch table plus a synchronous
// delivery callback, invoked from inside the mutation that triggered it
// (§9 "Inotify delivery callback: keep it synchronous").
type Inotify struct {
	handle  int
	wds     map[int]*WatchDesc
	byPath  map[string]*WatchDesc
	deliver func(InotifyEvent)
}

func (in *Inotify) fd() int { return in.handle }

// InotifyInit creates a new inotify descriptor that calls deliver for
// every event on any watch it owns.
func (fs *FileSystem) InotifyInit(deliver func(InotifyEvent)) *Inotify {
	in := &Inotify{
		handle:  nextFd(),
		wds:     make(map[int]*WatchDesc),
		byPath:  make(map[string]*WatchDesc),
		deliver: deliver,
	}
	fs.descriptors[in.handle] = in
	return in
}

func findWatch(node *Inode, owner *Inotify) (*WatchDesc, bool) {
	for _, w := range node.watches {
		if w.Owner == owner {
			return w, true
		}
	}
	return nil, false
}

// InotifyAddWatch resolves path (expanding symlinks unless IN_DONT_FOLLOW
// is set) and binds or merges a watch on the resulting inode (§4.6).
func (fs *FileSystem) InotifyAddWatch(in *Inotify, path string, mask uint32) (int, error) {
	noFollow := mask&vfsconst.IN_DONT_FOLLOW != 0
	e, err := fs.resolve(path, "inotify_add_watch", noFollow)
	if err != nil {
		return 0, err
	}
	if mask&vfsconst.IN_ONLYDIR != 0 && !e.Node.IsDir() {
		return 0, newErr(ENOTDIR, "inotify_add_watch", path)
	}

	if existing, ok := findWatch(e.Node, in); ok {
		if mask&vfsconst.IN_MASK_ADD != 0 {
			existing.Mask |= mask & inStoredMask
		} else {
			existing.Mask = mask & inStoredMask
		}
		return existing.Wd, nil
	}

	wd := nextWd()
	wdsc := &WatchDesc{Wd: wd, Owner: in, Path: path, Node: e.Node, Mask: mask & inStoredMask}
	if e.Node.watches == nil {
		e.Node.watches = make(map[int]*WatchDesc)
	}
	e.Node.watches[wd] = wdsc
	in.wds[wd] = wdsc
	in.byPath[path] = wdsc
	return wd, nil
}

// InotifyRmWatch detaches wd from its inode and delivers a final
// IN_IGNORED.
func (fs *FileSystem) InotifyRmWatch(in *Inotify, wd int) error {
	wdsc, ok := in.wds[wd]
	if !ok {
		return newErr(EINVAL, "inotify_rm_watch", "")
	}
	delete(in.wds, wd)
	delete(in.byPath, wdsc.Path)
	if wdsc.Node.watches != nil {
		delete(wdsc.Node.watches, wd)
	}
	in.deliver(InotifyEvent{Wd: wd, Mask: vfsconst.IN_IGNORED})
	return nil
}

// closeInotify detaches every watch owned by in without emitting
// IN_IGNORED (close is not the same teardown path as an explicit
// inotify_rm_watch or a watched inode's final unlink).
func (fs *FileSystem) closeInotify(in *Inotify) {
	for wd, wdsc := range in.wds {
		if wdsc.Node.watches != nil {
			delete(wdsc.Node.watches, wd)
		}
	}
	in.wds = nil
	in.byPath = nil
	delete(fs.descriptors, in.handle)
}

// notify delivers mask (with name/cookie) to every watch on node, per
// the deliveredMask formula in §4.6, removing IN_ONESHOT watches after
// delivery without an IN_IGNORED.
func (fs *FileSystem) notify(node *Inode, mask uint32, name string, cookie uint32) {
	if node == nil || len(node.watches) == 0 {
		return
	}
	for wd, wdsc := range node.watches {
		delivered := (mask & wdsc.Mask & vfsconst.IN_ALL_EVENTS) | (mask &^ vfsconst.IN_ALL_EVENTS)
		if delivered == 0 {
			continue
		}
		wdsc.Owner.deliver(InotifyEvent{Wd: wd, Mask: delivered, Name: name, Cookie: cookie})
		if wdsc.Mask&vfsconst.IN_ONESHOT != 0 {
			delete(node.watches, wd)
			delete(wdsc.Owner.wds, wd)
			delete(wdsc.Owner.byPath, wdsc.Path)
		}
	}
}

// removeAllWatches tears every watch on node down with an IN_IGNORED,
// called when node's nlink reaches zero (§3, §4.4, §4.6).
func (fs *FileSystem) removeAllWatches(node *Inode) {
	if len(node.watches) == 0 {
		return
	}
	for wd, wdsc := range node.watches {
		wdsc.Owner.deliver(InotifyEvent{Wd: wd, Mask: vfsconst.IN_IGNORED})
		delete(wdsc.Owner.wds, wd)
		delete(wdsc.Owner.byPath, wdsc.Path)
	}
	node.watches = nil
}

// NewCookie mints a fresh move cookie, monotonically increasing and
// unique within the process.
func NewCookie() uint32 { return nextCookie() }
