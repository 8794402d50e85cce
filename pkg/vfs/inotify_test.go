package vfs

import (
	"testing"

	"github.com/vfscore/memvfs/pkg/vfsconst"
)

func TestInotifyMaskMerge(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "x")
	in := fs.InotifyInit(func(InotifyEvent) {})

	wd1, err := fs.InotifyAddWatch(in, "/f", vfsconst.IN_MODIFY)
	if err != nil {
		t.Fatalf("InotifyAddWatch: %v", err)
	}
	wd2, err := fs.InotifyAddWatch(in, "/f", vfsconst.IN_ATTRIB|vfsconst.IN_MASK_ADD)
	if err != nil {
		t.Fatalf("InotifyAddWatch merge: %v", err)
	}
	if wd1 != wd2 {
		t.Fatalf("re-adding a watch on the same inode from the same watcher should reuse wd")
	}
	wdsc := fs.descriptors[in.fd()].(*Inotify).wds[wd1]
	want := uint32(vfsconst.IN_MODIFY | vfsconst.IN_ATTRIB)
	if wdsc.Mask != want {
		t.Errorf("merged mask = %#x, want %#x", wdsc.Mask, want)
	}

	// Without IN_MASK_ADD the mask replaces rather than merges.
	if _, err := fs.InotifyAddWatch(in, "/f", vfsconst.IN_OPEN); err != nil {
		t.Fatalf("InotifyAddWatch replace: %v", err)
	}
	if wdsc.Mask != uint32(vfsconst.IN_OPEN) {
		t.Errorf("replaced mask = %#x, want IN_OPEN", wdsc.Mask)
	}
}

func TestInotifyOneshotRemovedWithoutIgnored(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "x")

	var delivered []InotifyEvent
	in := fs.InotifyInit(func(ev InotifyEvent) { delivered = append(delivered, ev) })
	if _, err := fs.InotifyAddWatch(in, "/f", vfsconst.IN_MODIFY|vfsconst.IN_ONESHOT); err != nil {
		t.Fatalf("InotifyAddWatch: %v", err)
	}

	fd, err := fs.Open("/f", O_WRONLY, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := fs.Write(fd, []byte("y")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	fs.Fsync(fd)
	fs.Fsync(fd) // a second publish must not re-fire the removed oneshot watch

	var modifyCount, ignoredCount int
	for _, ev := range delivered {
		switch ev.Mask {
		case vfsconst.IN_MODIFY:
			modifyCount++
		case vfsconst.IN_IGNORED:
			ignoredCount++
		}
	}
	if modifyCount != 1 {
		t.Errorf("IN_MODIFY delivered %d times, want 1", modifyCount)
	}
	if ignoredCount != 0 {
		t.Errorf("oneshot teardown should not deliver IN_IGNORED, got %d", ignoredCount)
	}
}

func TestInotifyRmWatchDeliversIgnored(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "x")
	var gotIgnored bool
	in := fs.InotifyInit(func(ev InotifyEvent) {
		if ev.Mask == vfsconst.IN_IGNORED {
			gotIgnored = true
		}
	})
	wd, err := fs.InotifyAddWatch(in, "/f", vfsconst.IN_MODIFY)
	if err != nil {
		t.Fatalf("InotifyAddWatch: %v", err)
	}
	if err := fs.InotifyRmWatch(in, wd); err != nil {
		t.Fatalf("InotifyRmWatch: %v", err)
	}
	if !gotIgnored {
		t.Error("InotifyRmWatch should deliver a final IN_IGNORED")
	}
}

func TestWatchFacadeSuppressesIgnored(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)

	var events []Event
	w, err := fs.Watch("/a", func(ev Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	mustWrite(t, fs, "/a/f", "x")
	if err := fs.Unlink("/a/f"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	// Removing the watched directory drops its nlink to 0, which tears the
	// watch down and raises IN_IGNORED on it.
	if err := fs.Rmdir("/a"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	w.Close()

	for _, ev := range events {
		if ev.Kind == "" {
			t.Errorf("unexpected zero-value event kind: %+v", ev)
		}
		if ev.Kind == EventChange && ev.Filename == "" {
			t.Errorf("IN_IGNORED leaked through the facade: %+v", ev)
		}
	}
	if len(events) == 0 {
		t.Error("expected at least one facade event for file creation")
	}
}
