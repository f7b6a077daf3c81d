package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config       *Config
	Sources      map[string]Source // YAML-path -> last writer source (file only)
	ProfileBases map[string]string // profile name -> builtin base name
	Files        []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskgrid", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the daemon.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config at path and everything it includes. A
// missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	layer := fileLayer{sources: map[string]Source{}}
	switch _, err := os.Stat(path); {
	case err == nil:
		l := &loader{seen: map[string]bool{}}
		loaded, err := l.load(path)
		if err != nil {
			return nil, err
		}
		layer.overlay(loaded)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	cfg, profileBases, err := BuildEffectiveConfig(layer.raw)
	if err != nil {
		return nil, attachSourceContext(err, layer.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, layer.sources)
	}

	return &LoadResult{
		Config:       cfg,
		Sources:      layer.sources,
		ProfileBases: profileBases,
		Files:        layer.files,
	}, nil
}

// fileLayer is one config file merged over everything it includes.
type fileLayer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// overlay applies o on top of l; o's keys win.
func (l *fileLayer) overlay(o fileLayer) {
	l.raw = l.raw.merge(o.raw)
	if l.sources == nil {
		l.sources = make(map[string]Source, len(o.sources))
	}
	maps.Copy(l.sources, o.sources)
	l.files = append(l.files, o.files...)
}

// loader walks the include graph depth first. A file reached twice through
// different includes is merged once; a file that includes itself is an error.
type loader struct {
	seen  map[string]bool
	chain []string
}

func (l *loader) load(path string) (fileLayer, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return fileLayer{}, err
	}
	if slices.Contains(l.chain, canon) {
		return fileLayer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), canon)
	}
	if l.seen[canon] {
		return fileLayer{}, nil
	}
	l.seen[canon] = true
	l.chain = append(l.chain, canon)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	data, err := os.ReadFile(canon)
	if err != nil {
		return fileLayer{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fileLayer{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return fileLayer{}, fmt.Errorf("%s: %w", canon, err)
	}
	scan := scanDocument(&doc, canon)

	var out fileLayer
	for _, inc := range scan.includes {
		paths, err := expandInclude(canon, inc.value)
		if err != nil {
			return fileLayer{}, fmt.Errorf("%s: include %q: %w", inc.src.position(), inc.value, err)
		}
		for _, p := range paths {
			sub, err := l.load(p)
			if err != nil {
				return fileLayer{}, err
			}
			out.overlay(sub)
		}
	}

	out.overlay(fileLayer{raw: raw, sources: scan.sources, files: []string{canon}})
	return out, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks when it can so cycle detection sees one
// name per file.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func expandInclude(baseFile, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path, err := expandHome(include)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(baseFile), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		if ent.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(path, ent.Name()))
	}
	return files, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

type includeRef struct {
	value string
	src   Source
}

// docScan records where each dotted YAML path was last written in one file,
// plus the include entries found at the top level.
type docScan struct {
	file     string
	sources  map[string]Source
	includes []includeRef
}

func scanDocument(doc *yaml.Node, file string) docScan {
	scan := docScan{file: file, sources: map[string]Source{}}
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	scan.walk(root, "")
	return scan
}

func (s *docScan) at(n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: s.file, Line: n.Line, Column: n.Column}
}

func (s *docScan) walk(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		// Sequences are tracked as a whole.
		s.sources[path] = s.at(val)
		if prefix == "" && key == "include" {
			s.addIncludes(val)
		}
		s.walk(val, path)
	}
}

func (s *docScan) addIncludes(val *yaml.Node) {
	switch val.Kind {
	case yaml.ScalarNode:
		s.includes = append(s.includes, includeRef{value: val.Value, src: s.at(val)})
	case yaml.SequenceNode:
		for _, item := range val.Content {
			if item.Kind == yaml.ScalarNode {
				s.includes = append(s.includes, includeRef{value: item.Value, src: s.at(item)})
			}
		}
	}
}

// attachSourceContext points a validation error at the file position that
// set the offending key.
func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
