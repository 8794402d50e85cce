package vfs

import "testing"

func TestWriteVisibilityCopyBeforeWrite(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "0123456789")

	fd1, err := fs.Open("/f", O_RDWR, 0)
	if err != nil {
		t.Fatalf("Open fd1: %v", err)
	}
	fd2, err := fs.Open("/f", O_RDONLY, 0)
	if err != nil {
		t.Fatalf("Open fd2: %v", err)
	}

	if _, err := fs.Write(fd1, []byte("ABCDE")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf1 := make([]byte, 5)
	if _, err := fs.Read(fd1, buf1); err != nil {
		t.Fatalf("Read fd1: %v", err)
	}
	if string(buf1) != "56789" {
		t.Errorf("fd1 post-write read = %q, want 56789 (offset advanced past the write)", buf1)
	}

	buf2 := make([]byte, 10)
	n, err := fs.Read(fd2, buf2)
	if err != nil {
		t.Fatalf("Read fd2: %v", err)
	}
	if string(buf2[:n]) != "0123456789" {
		t.Errorf("fd2 should still see pre-write content, got %q", buf2[:n])
	}

	if err := fs.Close(fd1); err != nil {
		t.Fatalf("Close fd1: %v", err)
	}
	data, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile after close: %v", err)
	}
	if string(data) != "ABCDE56789" {
		t.Errorf("published content = %q, want ABCDE56789", data)
	}
}

func TestOpenAppendStartsAtEOF(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "hello")
	fd, err := fs.Open("/f", O_RDWR|O_APPEND, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := fs.Write(fd, []byte("!")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(fd); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello!" {
		t.Errorf("ReadFile = %q, want hello!", data)
	}
}

func TestOpenExclFailsIfExists(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "x")
	_, err := fs.Open("/f", O_CREAT|O_EXCL|O_WRONLY, 0o644)
	verr, ok := err.(*Error)
	if !ok || verr.Code != EEXIST {
		t.Fatalf("Open(O_CREAT|O_EXCL) on existing file = %v, want EEXIST", err)
	}
}

func TestTruncateGrowsWithZeros(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "hi")
	if err := fs.Truncate("/f", 5); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	data, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []byte{'h', 'i', 0, 0, 0}
	if string(data) != string(want) {
		t.Errorf("ReadFile after grow-truncate = %v, want %v", data, want)
	}
}

func TestCloseUnknownFdFails(t *testing.T) {
	fs := newTestFS()
	if err := fs.Close(99999); err == nil {
		t.Error("Close of an unknown fd should fail EBADF")
	}
}

func TestReadZeroLengthIsNoop(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/f", "hi")
	fd, err := fs.Open("/f", O_RDONLY, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	n, err := fs.Read(fd, nil)
	if err != nil || n != 0 {
		t.Errorf("Read with empty buf = (%d, %v), want (0, nil)", n, err)
	}
}

func TestContentHashMatchesIdenticalContentAndDiffersOnChange(t *testing.T) {
	fs := newTestFS()
	mustWrite(t, fs, "/a", "same bytes")
	mustWrite(t, fs, "/b", "same bytes")
	mustWrite(t, fs, "/c", "different bytes")

	ha, err := fs.ContentHash("/a")
	if err != nil {
		t.Fatalf("ContentHash /a: %v", err)
	}
	hb, err := fs.ContentHash("/b")
	if err != nil {
		t.Fatalf("ContentHash /b: %v", err)
	}
	hc, err := fs.ContentHash("/c")
	if err != nil {
		t.Fatalf("ContentHash /c: %v", err)
	}
	if ha != hb {
		t.Errorf("ContentHash of identical content should match: %x != %x", ha, hb)
	}
	if ha == hc {
		t.Errorf("ContentHash of different content should differ, both got %x", ha)
	}

	if err := fs.Mkdir("/d", 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := fs.ContentHash("/d"); err == nil {
		t.Error("ContentHash of a directory should fail")
	}
}
