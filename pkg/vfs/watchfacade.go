package vfs

import "github.com/vfscore/memvfs/pkg/vfsconst"

// EventKind classifies a Watcher event into the two buckets callers
// typically care about, the way fs.watch's listener callback collapses
// a raw inotify mask into "rename" or "change" (§4.6).
type EventKind string

const (
	EventRename EventKind = "rename"
	EventChange EventKind = "change"
)

// Event is a single notification delivered to a Watcher listener.
type Event struct {
	Kind     EventKind
	Filename string
}

// Watcher is the higher-level façade over a raw *Inotify descriptor: it
// translates delivered masks into Event values and silently drops
// IN_IGNORED, which is teardown bookkeeping rather than a filesystem
// change a caller should see.
type Watcher struct {
	fs *FileSystem
	in *Inotify
}

// Watch binds a Watcher to path, invoking listener for every subsequent
// create/delete/modify/rename/attrib event observed on it (and, for a
// directory, on its immediate children).
func (fs *FileSystem) Watch(path string, listener func(Event)) (*Watcher, error) {
	w := &Watcher{fs: fs}
	in := fs.InotifyInit(func(raw InotifyEvent) {
		if raw.Mask&vfsconst.IN_IGNORED != 0 {
			return
		}
		kind := EventChange
		if raw.Mask&(vfsconst.IN_MOVED_FROM|vfsconst.IN_MOVED_TO|vfsconst.IN_MOVE_SELF|
			vfsconst.IN_CREATE|vfsconst.IN_DELETE|vfsconst.IN_DELETE_SELF) != 0 {
			kind = EventRename
		}
		listener(Event{Kind: kind, Filename: raw.Name})
	})
	w.in = in

	mask := uint32(vfsconst.IN_ALL_EVENTS)
	if _, err := fs.InotifyAddWatch(in, path, mask); err != nil {
		fs.closeInotify(in)
		return nil, err
	}
	return w, nil
}

// Close stops delivery and releases the underlying inotify descriptor.
func (w *Watcher) Close() {
	w.fs.closeInotify(w.in)
}
