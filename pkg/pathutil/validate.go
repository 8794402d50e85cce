package pathutil

import "fmt"

// Flags controls which structural pieces of a path Validate requires or
// permits: a root component, a dirname, a basename, an extension, a
// trailing separator, and "." / ".." navigation segments.
type Flags uint32

const (
	RequireRoot Flags = 1 << iota
	AllowRoot
	RequireDirname
	AllowDirname
	RequireBasename
	AllowBasename
	RequireExtname
	AllowExtname
	RequireTrailingSeparator
	AllowTrailingSeparator
	AllowNavigation
)

// Common flag combinations used throughout pkg/vfs.
const (
	// Root matches a bare filesystem root: "/", "c:/", "//host/share/".
	Root = RequireRoot | AllowRoot | AllowTrailingSeparator

	// Absolute matches any fully-qualified path.
	Absolute = RequireRoot | AllowDirname | AllowBasename | AllowExtname | AllowTrailingSeparator | AllowNavigation

	// RelativeOrAbsolute matches either a relative or an absolute path.
	RelativeOrAbsolute = AllowRoot | AllowDirname | AllowBasename | AllowExtname | AllowTrailingSeparator | AllowNavigation

	// BasenameOnly matches a single bare name component, e.g. a directory
	// entry name with no separators. (Basename is the path function.)
	BasenameOnly = RequireBasename | AllowExtname
)

// forbiddenAlways are the characters rejected in any component of any
// path, navigable or not.
const forbiddenAlways = `:*?"<>|`

// ValidationError reports why Validate rejected a path. Per the spec it
// is conceptually an ENOENT-class failure; pkg/vfs wraps it accordingly
// rather than pathutil importing the vfs error taxonomy (which would
// create an import cycle).
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Validate checks path against flags, returning a *ValidationError when a
// required component is missing, a disallowed component is present, or a
// segment contains a forbidden character.
func Validate(path string, flags Flags) error {
	p := Parse(path)

	hasRoot := p.Root != ""
	hasBasename := len(p.Segments) > 0
	hasDirname := len(p.Segments) > 1 || (len(p.Segments) == 1 && hasRoot)
	hasExtname := hasBasename && Extname(path) != ""
	trailing := HasTrailingSeparator(path) || (hasRoot && len(p.Segments) == 0)

	if flags&RequireRoot != 0 && !hasRoot {
		return &ValidationError{Path: path, Reason: "root component required"}
	}
	if hasRoot && flags&RequireRoot == 0 && flags&AllowRoot == 0 {
		return &ValidationError{Path: path, Reason: "root component not allowed"}
	}

	if flags&RequireDirname != 0 && !hasDirname {
		return &ValidationError{Path: path, Reason: "dirname required"}
	}
	if hasDirname && flags&RequireDirname == 0 && flags&AllowDirname == 0 {
		return &ValidationError{Path: path, Reason: "dirname not allowed"}
	}

	if flags&RequireBasename != 0 && !hasBasename {
		return &ValidationError{Path: path, Reason: "basename required"}
	}
	if hasBasename && flags&RequireBasename == 0 && flags&AllowBasename == 0 {
		return &ValidationError{Path: path, Reason: "basename not allowed"}
	}

	if flags&RequireExtname != 0 && !hasExtname {
		return &ValidationError{Path: path, Reason: "extname required"}
	}
	if hasExtname && flags&RequireExtname == 0 && flags&AllowExtname == 0 {
		return &ValidationError{Path: path, Reason: "extname not allowed"}
	}

	if flags&RequireTrailingSeparator != 0 && !trailing {
		return &ValidationError{Path: path, Reason: "trailing separator required"}
	}
	if trailing && !hasRoot && flags&RequireTrailingSeparator == 0 && flags&AllowTrailingSeparator == 0 {
		return &ValidationError{Path: path, Reason: "trailing separator not allowed"}
	}

	for _, seg := range p.Segments {
		if seg == "." || seg == ".." {
			if flags&AllowNavigation == 0 {
				return &ValidationError{Path: path, Reason: "navigation segment not allowed: " + seg}
			}
			continue
		}
		for _, r := range seg {
			if containsRune(forbiddenAlways, r) {
				return &ValidationError{Path: path, Reason: fmt.Sprintf("forbidden character %q in segment %q", r, seg)}
			}
		}
	}

	return nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
