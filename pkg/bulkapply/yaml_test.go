package bulkapply

import "testing"

func TestLoadYAMLAndApply(t *testing.T) {
	doc := []byte(`
etc:
  directory:
    hosts:
      file: "127.0.0.1 localhost\n"
readme.txt:
  file: "hello"
link-to-readme:
  link: /readme.txt
`)
	tree, err := LoadYAML(doc)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	fs := newFS()
	if err := Apply(fs, "/", tree, ApplyOptions{Mode: 0o755}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := fs.ReadFile("/etc/hosts")
	if err != nil || string(data) != "127.0.0.1 localhost\n" {
		t.Errorf("ReadFile(/etc/hosts) = %q, %v", data, err)
	}
	data, err = fs.ReadFile("/link-to-readme")
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile(/link-to-readme) = %q, %v", data, err)
	}
}

func TestLoadYAMLRemove(t *testing.T) {
	doc := []byte("stale.txt: null\n")
	tree, err := LoadYAML(doc)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	node, ok := tree["stale.txt"]
	if !ok || !node.Remove {
		t.Errorf("stale.txt entry = %+v, want Remove=true", node)
	}
}
