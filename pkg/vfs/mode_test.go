package vfs

import "testing"

func TestParseFlagsAliases(t *testing.T) {
	cases := []struct {
		alias string
		want  OpenFlags
	}{
		{"r", O_RDONLY},
		{"r+", O_RDWR},
		{"rs+", O_RDWR | O_SYNC},
		{"w", O_WRONLY | O_CREAT | O_TRUNC},
		{"wx", O_WRONLY | O_CREAT | O_TRUNC | O_EXCL},
		{"w+", O_RDWR | O_CREAT | O_TRUNC},
		{"wx+", O_RDWR | O_CREAT | O_TRUNC | O_EXCL},
		{"a", O_WRONLY | O_CREAT | O_APPEND},
		{"ax", O_WRONLY | O_CREAT | O_APPEND | O_EXCL},
		{"a+", O_RDWR | O_CREAT | O_APPEND},
		{"ax+", O_RDWR | O_CREAT | O_APPEND | O_EXCL},
	}
	for _, c := range cases {
		got, err := ParseFlags(c.alias)
		if err != nil {
			t.Errorf("ParseFlags(%q): %v", c.alias, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseFlags(%q) = %v, want %v", c.alias, got, c.want)
		}
	}
}

func TestParseFlagsRejectsUnknownAlias(t *testing.T) {
	if _, err := ParseFlags("bogus"); err == nil {
		t.Error("ParseFlags(\"bogus\") should fail")
	}
}

// TestOpenWithAliasFlags exercises the alias contract end to end: "w"
// creates and truncates, "a" always appends at end-of-file, and "wx"
// fails EEXIST against an existing file, matching §4.5.
func TestOpenWithAliasFlags(t *testing.T) {
	fs := newTestFS()

	wFlags, err := ParseFlags("w")
	if err != nil {
		t.Fatalf("ParseFlags(w): %v", err)
	}
	fd, err := fs.Open("/f", wFlags, 0o644)
	if err != nil {
		t.Fatalf("Open(w): %v", err)
	}
	if _, err := fs.Write(fd, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(fd); err != nil {
		t.Fatalf("Close: %v", err)
	}

	aFlags, err := ParseFlags("a")
	if err != nil {
		t.Fatalf("ParseFlags(a): %v", err)
	}
	fd, err = fs.Open("/f", aFlags, 0o644)
	if err != nil {
		t.Fatalf("Open(a): %v", err)
	}
	if _, err := fs.Write(fd, []byte(" world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fs.Close(fd); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := fs.ReadFile("/f")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("ReadFile = %q, want %q", data, "hello world")
	}

	wxFlags, err := ParseFlags("wx")
	if err != nil {
		t.Fatalf("ParseFlags(wx): %v", err)
	}
	_, err = fs.Open("/f", wxFlags, 0o644)
	verr, ok := err.(*Error)
	if !ok || verr.Code != EEXIST {
		t.Fatalf("Open(wx) on existing file = %v, want EEXIST", err)
	}
}
