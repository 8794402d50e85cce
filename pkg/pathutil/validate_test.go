package pathutil

import "testing"

func TestValidateRoot(t *testing.T) {
	if err := Validate("/", Root); err != nil {
		t.Errorf("Validate(/, Root) = %v, want nil", err)
	}
	if err := Validate("c:/", Root); err != nil {
		t.Errorf("Validate(c:/, Root) = %v, want nil", err)
	}
	if err := Validate("/a", Root); err == nil {
		t.Error("Validate(/a, Root) should fail: has a basename")
	}
}

func TestValidateAbsolute(t *testing.T) {
	if err := Validate("/a/b.txt", Absolute); err != nil {
		t.Errorf("Validate(/a/b.txt, Absolute) = %v, want nil", err)
	}
	if err := Validate("relative", Absolute); err == nil {
		t.Error("Validate(relative, Absolute) should fail: no root")
	}
}

func TestValidateBasename(t *testing.T) {
	if err := Validate("file.txt", BasenameOnly); err != nil {
		t.Errorf("Validate(file.txt, BasenameOnly) = %v, want nil", err)
	}
	if err := Validate("/a/file.txt", BasenameOnly); err == nil {
		t.Error("Validate(/a/file.txt, BasenameOnly) should fail: has a root/dirname")
	}
}

func TestValidateNavigationForbidden(t *testing.T) {
	if err := Validate("/a/../b", Absolute&^AllowNavigation); err == nil {
		t.Error("Validate with .. segment and no AllowNavigation should fail")
	}
	if err := Validate("/a/../b", Absolute|AllowNavigation); err != nil {
		t.Errorf("Validate with AllowNavigation should pass: %v", err)
	}
}

func TestValidateForbiddenCharacters(t *testing.T) {
	for _, bad := range []string{"/a:b", "/a*b", "/a?b", `/a"b`, "/a<b", "/a>b", "/a|b"} {
		if err := Validate(bad, Absolute|AllowNavigation); err == nil {
			t.Errorf("Validate(%q) should reject forbidden character", bad)
		}
	}
}

func TestValidateRelativeOrAbsolute(t *testing.T) {
	if err := Validate("/a/b", RelativeOrAbsolute); err != nil {
		t.Errorf("absolute path should validate: %v", err)
	}
	if err := Validate("a/b", RelativeOrAbsolute); err != nil {
		t.Errorf("relative path should validate: %v", err)
	}
}
