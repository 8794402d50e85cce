package vfs

import (
	"testing"

	"github.com/vfscore/memvfs/pkg/vfsconst"
)

func newTestFS() *FileSystem {
	return New(Options{})
}

func TestCreateAndRead(t *testing.T) {
	fs := newTestFS()
	if err := fs.Mkdir("/a", 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := fs.WriteFile("/a/f", []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := fs.ReadFile("/a/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("ReadFile = %q, want %q", data, "hi")
	}
	st, err := fs.Stat("/a/f")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if st.Size != 2 {
		t.Errorf("Stat.Size = %d, want 2", st.Size)
	}
	if !st.IsFile() {
		t.Error("Stat.IsFile() should be true")
	}
}

func TestSymlinkTraversal(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "hi")
	if err := fs.Symlink("f", "/a/g"); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	data, err := fs.ReadFile("/a/g")
	if err != nil {
		t.Fatalf("ReadFile through symlink: %v", err)
	}
	if string(data) != "hi" {
		t.Errorf("ReadFile(/a/g) = %q, want hi", data)
	}
	lst, err := fs.Lstat("/a/g")
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if !lst.IsSymbolicLink() {
		t.Error("Lstat(/a/g).IsSymbolicLink() should be true")
	}
	st, err := fs.Stat("/a/g")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !st.IsFile() {
		t.Error("Stat(/a/g).IsFile() should be true (follows symlink)")
	}
}

func TestSymlinkLoopDetection(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	if err := fs.Symlink("g", "/a/g"); err != nil {
		t.Fatalf("Symlink: %v", err)
	}
	_, err := fs.ReadFile("/a/g")
	verr, ok := err.(*Error)
	if !ok || verr.Code != ELOOP {
		t.Fatalf("ReadFile(/a/g) on self-loop = %v, want ELOOP", err)
	}
}

func TestRenameCookiePairing(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "hi")

	var events []InotifyEvent
	in := fs.InotifyInit(func(ev InotifyEvent) { events = append(events, ev) })
	if _, err := fs.InotifyAddWatch(in, "/a", vfsconst.IN_MOVED_FROM|vfsconst.IN_MOVED_TO); err != nil {
		t.Fatalf("InotifyAddWatch: %v", err)
	}

	if err := fs.Rename("/a/f", "/a/h"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	var from, to *InotifyEvent
	for i := range events {
		switch {
		case events[i].Name == "f":
			from = &events[i]
		case events[i].Name == "h":
			to = &events[i]
		}
	}
	if from == nil || to == nil {
		t.Fatalf("expected move-from and move-to events, got %+v", events)
	}
	if from.Cookie == 0 || from.Cookie != to.Cookie {
		t.Errorf("cookies should match and be non-zero: from=%d to=%d", from.Cookie, to.Cookie)
	}
}

func TestShadowIsolation(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	mustWrite(t, fs, "/a/f", "hi")
	fs.MakeReadonly()

	shadow, err := fs.Shadow(false)
	if err != nil {
		t.Fatalf("Shadow: %v", err)
	}
	if err := shadow.WriteFile("/a/f", []byte("bye"), 0o644); err != nil {
		t.Fatalf("shadow WriteFile: %v", err)
	}

	parentData, err := fs.ReadFile("/a/f")
	if err != nil {
		t.Fatalf("parent ReadFile: %v", err)
	}
	if string(parentData) != "hi" {
		t.Errorf("parent content mutated: %q, want hi", parentData)
	}

	shadowData, err := shadow.ReadFile("/a/f")
	if err != nil {
		t.Fatalf("shadow ReadFile: %v", err)
	}
	if string(shadowData) != "bye" {
		t.Errorf("shadow content = %q, want bye", shadowData)
	}
}

func TestShadowRequiresFrozenParent(t *testing.T) {
	fs := newTestFS()
	if _, err := fs.Shadow(false); err == nil {
		t.Error("Shadow of a mutable filesystem should fail")
	}
}

func TestFrozenFilesystemRejectsMutation(t *testing.T) {
	fs := newTestFS()
	mustMkdir(t, fs, "/a", 0o755)
	fs.MakeReadonly()
	err := fs.Mkdir("/a/b", 0o755)
	verr, ok := err.(*Error)
	if !ok || verr.Code != EROFS {
		t.Fatalf("Mkdir on frozen fs = %v, want EROFS", err)
	}
}

func mustMkdir(t *testing.T, fs *FileSystem, path string, mode uint32) {
	t.Helper()
	if err := fs.Mkdir(path, mode); err != nil {
		t.Fatalf("Mkdir(%s): %v", path, err)
	}
}

func mustWrite(t *testing.T, fs *FileSystem, path, content string) {
	t.Helper()
	if err := fs.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
