// Package pathutil parses, normalises, and classifies POSIX/UNC/DOS-style
// path strings on behalf of the in-memory filesystem in pkg/vfs. It never
// touches a real filesystem: every function is a pure string transform.
package pathutil

import "strings"

// Parsed is a path split into its root component (empty for a relative
// path) and an ordered list of non-empty, non-navigation-trimmed segments.
type Parsed struct {
	Root     string
	Segments []string
}

// NormalizeSeparators converts backslashes to forward slashes and trims
// whitespace padding a separator runs on either side, e.g. "a \ b" becomes
// "a/b" and "a/ b /c" becomes "a/b/c".
func NormalizeSeparators(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	var b strings.Builder
	b.Grow(len(path))
	i := 0
	for i < len(path) {
		if path[i] == '/' {
			for b.Len() > 0 && b.String()[b.Len()-1] == ' ' {
				s := b.String()
				b.Reset()
				b.WriteString(s[:len(s)-1])
			}
			b.WriteByte('/')
			i++
			for i < len(path) && path[i] == ' ' {
				i++
			}
			continue
		}
		b.WriteByte(path[i])
		i++
	}
	return b.String()
}

// splitRoot identifies a POSIX ("/"), UNC ("//host/share/"), or DOS
// ("c:/") root prefix and returns it alongside the unconsumed remainder.
func splitRoot(path string) (root, rest string) {
	if len(path) >= 2 && isDriveLetter(path[0]) && path[1] == ':' {
		root = strings.ToLower(path[:1]) + ":/"
		rest = strings.TrimPrefix(path[2:], "/")
		return root, rest
	}
	if strings.HasPrefix(path, "//") {
		tail := path[2:]
		parts := strings.SplitN(tail, "/", 3)
		if len(parts) >= 2 && parts[0] != "" && parts[1] != "" {
			root = "//" + parts[0] + "/" + parts[1] + "/"
			if len(parts) == 3 {
				rest = parts[2]
			}
			return root, rest
		}
		return "/", strings.TrimPrefix(tail, "/")
	}
	if strings.HasPrefix(path, "/") {
		return "/", path[1:]
	}
	return "", path
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Parse splits path into a root component and ordered segments. Leading,
// trailing, and repeated separators collapse away; Parse itself does not
// interpret "." or ".." specially — Normalize does that.
func Parse(path string) Parsed {
	path = NormalizeSeparators(strings.TrimSpace(path))
	root, rest := splitRoot(path)
	var segments []string
	for _, part := range strings.Split(rest, "/") {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return Parsed{Root: root, Segments: segments}
}

// Format is the inverse of Parse: it reconstructs a canonical path string
// from a root and segment list, with no trailing separator unless the
// result is a bare root.
func Format(p Parsed) string {
	if len(p.Segments) == 0 {
		if p.Root != "" {
			return p.Root
		}
		return "."
	}
	joined := strings.Join(p.Segments, "/")
	if p.Root == "" {
		return joined
	}
	return p.Root + joined
}

// IsAbsolute reports whether path carries a POSIX, UNC, or DOS root.
func IsAbsolute(path string) bool {
	root, _ := splitRoot(NormalizeSeparators(path))
	return root != ""
}

// IsRoot reports whether path, once parsed, names a root with no further
// segments (e.g. "/", "c:/", "//host/share/").
func IsRoot(path string) bool {
	p := Parse(path)
	return p.Root != "" && len(p.Segments) == 0
}

// HasTrailingSeparator reports whether path ends in a separator once
// whitespace-normalised. Per spec it always reports false for a bare root,
// even though Root-flag validation treats roots as separator-terminated
// structurally (see Validate).
func HasTrailingSeparator(path string) bool {
	norm := NormalizeSeparators(path)
	if norm == "" {
		return false
	}
	if IsRoot(path) {
		return false
	}
	return strings.HasSuffix(norm, "/")
}

// Normalize collapses "." segments and resolves ".." against the
// preceding non-".." segment. A ".." that would escape the root is
// dropped; a leading ".." in a relative path (nothing to pop, no root to
// protect) is preserved.
func Normalize(path string) string {
	p := Parse(path)
	out := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		switch seg {
		case ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
				continue
			}
			if p.Root != "" {
				continue
			}
			out = append(out, "..")
		default:
			out = append(out, seg)
		}
	}
	return Format(Parsed{Root: p.Root, Segments: out})
}

// Combine joins path components with a separator and normalises the
// result. An absolute component resets the join (later absolute wins),
// matching the common path.join/path.resolve convention.
func Combine(parts ...string) string {
	if len(parts) == 0 {
		return "."
	}
	result := parts[0]
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		if IsAbsolute(part) {
			result = part
			continue
		}
		if result == "" || result == "." {
			result = part
			continue
		}
		result = strings.TrimSuffix(result, "/") + "/" + part
	}
	return Normalize(result)
}

// Resolve resolves target against base the way a shell resolves a
// relative argument against a working directory: an absolute target wins
// outright, otherwise target is joined onto base. The result is always
// normalised.
func Resolve(base, target string) string {
	if IsAbsolute(target) {
		return Normalize(target)
	}
	return Combine(base, target)
}

// Dirname returns the parent path of path: the root plus all but the
// last segment, "." for a rootless single-segment relative path, or the
// root itself for a root or root-adjacent single-segment path.
func Dirname(path string) string {
	p := Parse(path)
	if len(p.Segments) == 0 {
		if p.Root != "" {
			return p.Root
		}
		return "."
	}
	parent := Parsed{Root: p.Root, Segments: p.Segments[:len(p.Segments)-1]}
	return Format(parent)
}

// Basename returns the final segment of path, or "" if path names a root.
func Basename(path string) string {
	p := Parse(path)
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Extname returns the final segment's extension, including the leading
// dot, or "" if the basename has no extension or is a dotfile with no
// name before the dot (e.g. ".bashrc").
func Extname(path string) string {
	base := Basename(path)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return base[idx:]
}
