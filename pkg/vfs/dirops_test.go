package vfs

import (
	"testing"

	"github.com/vfscore/memvfs/pkg/vfsconst"
)

func TestMkdirRmdir(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	st, err := fs.Stat("/a")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !st.IsDir() {
		t.Error("Stat(/a).IsDir() should be true")
	}
	if err := fs.Mkdir("/a", 0o755); err == nil {
		t.Error("Mkdir of an existing directory should fail EEXIST")
	}
	if err := fs.Rmdir("/a"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	if _, err := fs.Stat("/a"); err == nil {
		t.Error("Stat after Rmdir should fail")
	}
}

func TestRmdirNonEmptyFails(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "x")
	err := fs.Rmdir("/a")
	verr, ok := err.(*Error)
	if !ok || verr.Code != ENOTEMPTY {
		t.Fatalf("Rmdir(/a) with children = %v, want ENOTEMPTY", err)
	}
}

func TestLinkIncrementsNlink(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "hi")
	if err := fs.Link("/a/f", "/a/g"); err != nil {
		t.Fatalf("Link: %v", err)
	}
	st, _ := fs.Stat("/a/f")
	if st.Nlink != 2 {
		t.Errorf("Nlink after Link = %d, want 2", st.Nlink)
	}
	data, err := fs.ReadFile("/a/g")
	if err != nil || string(data) != "hi" {
		t.Errorf("ReadFile(/a/g) = %q, %v, want hi, nil", data, err)
	}
}

func TestLinkRejectsDirectories(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	if err := fs.Link("/a", "/b"); err == nil {
		t.Error("Link of a directory should fail")
	}
}

func TestUnlinkRemovesOnLastNlink(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "hi")

	var ignored bool
	in := fs.InotifyInit(func(ev InotifyEvent) {
		if ev.Mask == vfsconst.IN_IGNORED {
			ignored = true
		}
	})
	if _, err := fs.InotifyAddWatch(in, "/a/f", vfsconst.IN_ALL_EVENTS); err != nil {
		t.Fatalf("InotifyAddWatch: %v", err)
	}

	if err := fs.Unlink("/a/f"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if !ignored {
		t.Error("expected IN_IGNORED delivery after final unlink")
	}
	if _, err := fs.ReadFile("/a/f"); err == nil {
		t.Error("ReadFile after Unlink should fail")
	}
}

func TestUnlinkRejectsDirectories(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	err := fs.Unlink("/a")
	verr, ok := err.(*Error)
	if !ok || verr.Code != EISDIR {
		t.Fatalf("Unlink(/a) = %v, want EISDIR", err)
	}
}

func TestRenameKindMismatchFails(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/f", "hi")
	if err := fs.Rename("/f", "/a"); err == nil {
		t.Error("renaming a file over an existing directory should fail")
	}
	if err := fs.Rename("/a", "/f"); err == nil {
		t.Error("renaming a directory over an existing file should fail")
	}
}

func TestRenameDisplacesAndUnlinksDestination(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/old", "old-content")
	mustWrite(t, fs, "/new", "new-content")
	if err := fs.Rename("/old", "/new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	data, err := fs.ReadFile("/new")
	if err != nil || string(data) != "old-content" {
		t.Errorf("ReadFile(/new) = %q, %v, want old-content, nil", data, err)
	}
	if _, err := fs.Stat("/old"); err == nil {
		t.Error("Stat(/old) after rename should fail")
	}
}
