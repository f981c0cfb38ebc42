package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/platform"
)

// Section names that prompts are declared against.
const (
	SectionInstall = "install"
	SectionEnv     = "env"
)

// Top-level keys of the configuration document.
const (
	keyVersion = "version"
	keyPackage = "package"
	keyInstall = SectionInstall
	keyEnv     = SectionEnv
)

// DefaultVersion is the version of a project that was never configured.
const DefaultVersion = "0.0.0"

// Configuration is the in-memory configuration of a project for one run.
type Configuration struct {
	Version string
	Package *Section // package descriptor, never written to the rc record
	Install *Section // install answers, persisted in the rc record
	Env     *Section // environment answers, persisted in the env file only

	// Extra holds unknown top-level rc keys so that Save writes them back.
	Extra *Section
}

// New returns the built-in default configuration.
func New() *Configuration {
	return &Configuration{
		Version: DefaultVersion,
		Package: NewSection(),
		Install: NewSection(),
		Env:     NewSection(),
		Extra:   NewSection(),
	}
}

// Section returns the named prompt section ("install" or "env"), or nil.
func (c *Configuration) Section(name string) *Section {
	switch name {
	case SectionInstall:
		return c.Install
	case SectionEnv:
		return c.Env
	default:
		return nil
	}
}

// Document renders the whole configuration, package and env included, as a
// JSON object. It is what hooks receive; it is never persisted as is.
func (c *Configuration) Document() ([]byte, error) {
	return json.Marshal(c.Tree())
}

// Tree returns the whole configuration as one section keyed by version,
// install, package, env and the extras. Nested sections are shared with c.
func (c *Configuration) Tree() *Section {
	doc := c.record()
	doc.Set(keyPackage, c.Package)
	doc.Set(keyEnv, c.Env)
	return doc
}

// Replace overwrites c with a tree shaped like the one Tree returns. On error
// c is left untouched.
func (c *Configuration) Replace(tree *Section) error {
	return c.replaceFrom(tree)
}

// record builds the persisted rc record: version, install, then extras.
func (c *Configuration) record() *Section {
	rec := NewSection()
	rec.Set(keyVersion, c.Version)
	rec.Set(keyInstall, c.Install)
	if c.Extra != nil {
		for pair := c.Extra.Oldest(); pair != nil; pair = pair.Next() {
			rec.Set(pair.Key, pair.Value)
		}
	}
	return rec
}

// replaceFrom overwrites c with the values of a configuration document.
func (c *Configuration) replaceFrom(doc *Section) error {
	next := New()
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case keyVersion:
			v, ok := pair.Value.(string)
			if !ok {
				return fmt.Errorf("%q must be a string, got %T", keyVersion, pair.Value)
			}
			next.Version = v
		case keyPackage, keyInstall, keyEnv:
			s, ok := pair.Value.(*Section)
			if !ok {
				return fmt.Errorf("%q must be an object, got %T", pair.Key, pair.Value)
			}
			switch pair.Key {
			case keyPackage:
				next.Package = s
			case keyInstall:
				next.Install = s
			case keyEnv:
				next.Env = s
			}
		default:
			next.Extra.Set(pair.Key, pair.Value)
		}
	}
	*c = *next
	return nil
}

// Store reads and writes the configuration files of one project root.
type Store struct {
	Root        string
	RCPath      string
	PackagePath string
	EnvPath     string
}

// Open returns a Store for the project at root using the branded file names.
func Open(root string) *Store {
	return &Store{
		Root:        root,
		RCPath:      filepath.Join(root, branding.RCFile()),
		PackagePath: filepath.Join(root, branding.PackageFile()),
		EnvPath:     filepath.Join(root, branding.EnvFile()),
	}
}

// Load builds the configuration from the built-in defaults, then deep-merges
// the rc record, assigns the package descriptor and parses the env file, in
// that order. A missing file contributes nothing; a malformed one is an error.
func (s *Store) Load() (*Configuration, error) {
	doc := New().recordWithAll()

	rc, err := readObject(s.RCPath)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		DeepMerge(doc, rc)
	}

	cfg := New()
	if err := cfg.replaceFrom(doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.RCPath, err)
	}

	pkg, err := readObject(s.PackagePath)
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		cfg.Package = pkg
	}

	env, err := readEnvFile(s.EnvPath)
	if err != nil {
		return nil, err
	}
	if env != nil {
		cfg.Env = env
	}

	return cfg, nil
}

// Save writes the rc record: the configuration without its package and env
// sections. The env section must be persisted separately with WriteEnv.
func (s *Store) Save(cfg *Configuration) error {
	data, err := marshalIndent(cfg.record())
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", s.RCPath, err)
	}
	if err := platform.WriteFile(s.RCPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.RCPath, err)
	}
	return nil
}

// WritePackage writes the package section wholesale to the package descriptor.
func (s *Store) WritePackage(cfg *Configuration) error {
	pkg := cfg.Package
	if pkg == nil {
		pkg = NewSection()
	}
	data, err := marshalIndent(pkg)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", s.PackagePath, err)
	}
	if err := platform.WriteFile(s.PackagePath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.PackagePath, err)
	}
	return nil
}

// recordWithAll is the default document the rc record is merged into.
func (c *Configuration) recordWithAll() *Section {
	doc := NewSection()
	doc.Set(keyVersion, c.Version)
	doc.Set(keyPackage, c.Package)
	doc.Set(keyInstall, c.Install)
	doc.Set(keyEnv, c.Env)
	return doc
}

// readObject reads a JSON object file. It returns nil, nil if the file does
// not exist.
func readObject(path string) (*Section, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	obj, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, nil
}
