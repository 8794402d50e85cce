package bulkapply

import (
	"gopkg.in/yaml.v3"
)

// yamlNode mirrors Node's fields with YAML tags so a FileMap fixture can
// be authored as a plain YAML document instead of Go struct literals.
// Exactly one of file/directory/link/symlink/mount is expected per entry;
// Remove is expressed as a bare `null` value, which yaml.v3 decodes into
// a nil *yamlNode, and convertYAMLMap turns every nil entry, at the top
// level and inside any `directory:`, into a Remove node.
type yamlNode struct {
	Remove    bool                 `yaml:"remove"`
	File      string               `yaml:"file"`
	Directory map[string]*yamlNode `yaml:"directory"`
	Link      string               `yaml:"link"`
	Symlink   string               `yaml:"symlink"`
	Mount     *yamlMount           `yaml:"mount"`
	Uid       *uint32              `yaml:"uid"`
	Gid       *uint32              `yaml:"gid"`
	Mode      *uint32              `yaml:"mode"`
	Meta      map[string]any       `yaml:"meta"`
}

type yamlMount struct {
	Source string `yaml:"source"`
}

// LoadYAML parses a YAML document into a FileMap suitable for Apply. The
// top level and every `directory:` value is a name -> entry mapping; a
// bare `null` entry removes the path; an entry with only `file:` set
// writes that string as file content; `link:`/`symlink:`/`mount:` behave
// as the matching Node fields.
func LoadYAML(data []byte) (FileMap, error) {
	var raw map[string]*yamlNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return convertYAMLMap(raw), nil
}

func convertYAMLMap(raw map[string]*yamlNode) FileMap {
	tree := make(FileMap, len(raw))
	for name, n := range raw {
		if n == nil {
			tree[name] = Node{Remove: true}
			continue
		}
		tree[name] = convertYAMLNode(*n)
	}
	return tree
}

func convertYAMLNode(n yamlNode) Node {
	node := Node{
		Remove: n.Remove,
		Data:   []byte(n.File),
		Link:   n.Link,
		Symlink: n.Symlink,
		Uid:    n.Uid,
		Gid:    n.Gid,
		Mode:   n.Mode,
		Meta:   n.Meta,
	}
	if n.Mount != nil {
		node.Mount = &MountSpec{Source: n.Mount.Source}
	}
	if n.Directory != nil {
		node.Directory = true
		node.Children = convertYAMLMap(n.Directory)
	}
	return node
}
