// pkg/manifest/parser.go
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a recipe manifest. The path may be the manifest
// file itself or a recipe directory containing one.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving manifest directory: %w", err)
	}
	m.Dir = dir

	return m, nil
}

// Parse decodes manifest YAML and applies defaults. Unknown fields are
// rejected so typos in recipes surface early.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if m.Base == "" {
		m.Base = m.Name
	}
	if m.Release == 0 {
		m.Release = 1
	}
	if len(m.Arch) == 0 {
		m.Arch = []string{ArchAny}
	}

	return &m, nil
}

// Validate checks the manifest against the recipe rules and returns one
// problem string per violation. An empty result means the manifest is
// buildable.
func (m *Manifest) Validate() []string {
	var problems []string

	switch {
	case m.Name == "":
		problems = append(problems, "name is required")
	case strings.HasPrefix(m.Name, "-") || strings.HasPrefix(m.Name, "."):
		problems = append(problems, fmt.Sprintf("name %q must not start with a hyphen or dot", m.Name))
	default:
		for _, c := range m.Name {
			if !strings.ContainsRune(nameChars, c) {
				problems = append(problems, fmt.Sprintf("name %q contains invalid character %q", m.Name, c))
				break
			}
		}
	}

	if m.VersionFrom == "" {
		if m.Version == "" {
			problems = append(problems, "version is required unless version_from is set")
		} else if strings.ContainsAny(m.Version, "-/ \t:") {
			problems = append(problems, fmt.Sprintf("version %q contains reserved characters", m.Version))
		}
	} else if m.VersionFrom != VersionFromGit {
		problems = append(problems, fmt.Sprintf("unknown version_from %q", m.VersionFrom))
	} else if _, ok := m.GitSource(); !ok {
		problems = append(problems, "version_from: git requires a git source")
	}

	if m.Release < 1 {
		problems = append(problems, "release must be at least 1")
	}
	if m.Epoch < 0 {
		problems = append(problems, "epoch must not be negative")
	}
	if len(m.Arch) == 0 {
		problems = append(problems, "arch must list at least one architecture")
	}

	for i, src := range m.Sources {
		if src.URL == "" {
			problems = append(problems, fmt.Sprintf("source %d: url is required", i+1))
			continue
		}
		switch {
		case src.Checksum == "":
			problems = append(problems, fmt.Sprintf("source %d (%s): checksum is required, use %s to skip", i+1, src.FileName(), ChecksumSkip))
		case src.Checksum == ChecksumSkip:
		case strings.HasPrefix(src.Checksum, ChecksumPrefix):
			hex := src.Checksum[len(ChecksumPrefix):]
			if len(hex) != 64 || !isHex(hex) {
				problems = append(problems, fmt.Sprintf("source %d (%s): malformed sha256 checksum", i+1, src.FileName()))
			}
		default:
			problems = append(problems, fmt.Sprintf("source %d (%s): unsupported checksum scheme", i+1, src.FileName()))
		}
		if src.IsGit() && src.Checksum != ChecksumSkip {
			problems = append(problems, fmt.Sprintf("source %d (%s): git sources must use checksum %s", i+1, src.FileName(), ChecksumSkip))
		}
	}

	if strings.TrimSpace(m.Package) == "" {
		problems = append(problems, "package hook is required")
	}

	return problems
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
