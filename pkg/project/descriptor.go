// Package project reads and writes stoker's project descriptor file. The
// descriptor is an ordered YAML document: the project name and version first,
// followed by keyword-tagged entries such as dependencies, source-paths and
// exclusions. It is manipulated through yaml.Node so that a read-modify-write
// round trip preserves every key the caller didn't touch, in its original
// order.
package project

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DescriptorFile is the conventional descriptor file name at a project root.
const DescriptorFile = "project.yml"

const (
	keyName         = "project"
	keyVersion      = "version"
	keyDependencies = "dependencies"
	keySourcePaths  = "source-paths"
	keyExclusions   = "exclusions"
)

// Descriptor wraps a parsed descriptor document.
type Descriptor struct {
	root yaml.Node
}

// New builds a minimal descriptor containing only the head entries.
func New(name, version string) *Descriptor {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(mapping, keyName, scalar(name))
	appendPair(mapping, keyVersion, scalar(version))

	desc := &Descriptor{}
	desc.root = yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{mapping},
	}
	return desc
}

// FindDescriptor searches from the given directory upwards for a descriptor
// file and returns its path.
func FindDescriptor(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "failed to resolve %s", start)
	}

	for {
		path := filepath.Join(dir, DescriptorFile)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "failed to check %s", path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", eris.Errorf("no %s found", DescriptorFile)
}

// Load parses the descriptor file at the given path.
func Load(path string) (*Descriptor, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read descriptor %s", path)
	}

	return Parse(data)
}

// Parse parses descriptor data.
func Parse(data []byte) (*Descriptor, error) {
	desc := &Descriptor{}
	err := yaml.Unmarshal(data, &desc.root)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse descriptor")
	}

	if desc.root.Kind != yaml.DocumentNode || len(desc.root.Content) != 1 ||
		desc.root.Content[0].Kind != yaml.MappingNode {
		return nil, eris.New("descriptor must be a single key-value document")
	}

	return desc, nil
}

// Save writes the descriptor to the given path.
func (d *Descriptor) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(path, data, 0o644)
	if err != nil {
		return eris.Wrapf(err, "failed to write descriptor %s", path)
	}

	return nil
}

// Encode serializes the descriptor.
func (d *Descriptor) Encode() ([]byte, error) {
	data, err := yaml.Marshal(d.mapping())
	if err != nil {
		return nil, eris.Wrap(err, "failed to serialize descriptor")
	}

	return data, nil
}

func (d *Descriptor) Name() string {
	return d.scalarValue(keyName)
}

func (d *Descriptor) Version() string {
	return d.scalarValue(keyVersion)
}

func (d *Descriptor) SetName(name string) {
	d.setScalar(keyName, name)
}

func (d *Descriptor) SetVersion(version string) {
	d.setScalar(keyVersion, version)
}

// Dependencies returns the dependency entries in "name version" form.
func (d *Descriptor) Dependencies() []string {
	return d.stringList(keyDependencies)
}

func (d *Descriptor) SourcePaths() []string {
	return d.stringList(keySourcePaths)
}

func (d *Descriptor) Exclusions() []string {
	return d.stringList(keyExclusions)
}

func (d *Descriptor) SetSourcePaths(paths []string) {
	d.setList(keySourcePaths, paths)
}

func (d *Descriptor) SetDependencies(deps []string) {
	d.setList(keyDependencies, deps)
}

// MergeDependencies appends every entry whose name isn't present yet. Entries
// are keyed by their first field, so re-merging an already merged list leaves
// the descriptor unchanged.
func (d *Descriptor) MergeDependencies(extra []string) {
	existing := make(map[string]bool)
	for _, entry := range d.Dependencies() {
		existing[depName(entry)] = true
	}

	list := d.ensureList(keyDependencies)
	for _, entry := range extra {
		if !existing[depName(entry)] {
			existing[depName(entry)] = true
			list.Content = append(list.Content, scalar(entry))
		}
	}
}

// MergeExclusions unions the given entries into the exclusion list, keeping
// the existing order and appending new entries at the end.
func (d *Descriptor) MergeExclusions(extra []string) {
	existing := make(map[string]bool)
	for _, entry := range d.Exclusions() {
		existing[entry] = true
	}

	list := d.ensureList(keyExclusions)
	for _, entry := range extra {
		if !existing[entry] {
			existing[entry] = true
			list.Content = append(list.Content, scalar(entry))
		}
	}
}

func depName(entry string) string {
	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return entry
	}

	return fields[0]
}

func (d *Descriptor) mapping() *yaml.Node {
	return d.root.Content[0]
}

func (d *Descriptor) value(key string) *yaml.Node {
	mapping := d.mapping()
	for idx := 0; idx < len(mapping.Content)-1; idx += 2 {
		if mapping.Content[idx].Value == key {
			return mapping.Content[idx+1]
		}
	}

	return nil
}

func (d *Descriptor) scalarValue(key string) string {
	node := d.value(key)
	if node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}

	return node.Value
}

func (d *Descriptor) setScalar(key, value string) {
	node := d.value(key)
	if node == nil {
		appendPair(d.mapping(), key, scalar(value))
		return
	}

	*node = *scalar(value)
}

func (d *Descriptor) stringList(key string) []string {
	node := d.value(key)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}

	result := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		result = append(result, item.Value)
	}

	return result
}

func (d *Descriptor) setList(key string, items []string) {
	list := d.ensureList(key)
	list.Content = list.Content[:0]
	for _, item := range items {
		list.Content = append(list.Content, scalar(item))
	}
}

func (d *Descriptor) ensureList(key string) *yaml.Node {
	node := d.value(key)
	if node == nil {
		node = &yaml.Node{Kind: yaml.SequenceNode}
		appendPair(d.mapping(), key, node)
	}

	return node
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalar(key), value)
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: value,
	}
}
