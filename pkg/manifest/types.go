// pkg/manifest/types.go
package manifest

import (
	"fmt"
	"strings"
)

// Manifest is a declarative package build recipe
type Manifest struct {
	Name        string `yaml:"name"`    // Package name
	Base        string `yaml:"base"`    // Package base, defaults to Name
	Version     string `yaml:"version"` // Upstream version (may be resolved at build time)
	Release     int    `yaml:"release"` // Package release number
	Epoch       int    `yaml:"epoch"`   // Version epoch
	Description string `yaml:"description"`
	URL         string `yaml:"url"`

	License []string `yaml:"license"`
	Arch    []string `yaml:"arch"` // Target architectures, "any" for arch-independent

	Depends      []string `yaml:"depends"`
	OptDepends   []string `yaml:"optdepends"` // "name: reason" or bare name
	MakeDepends  []string `yaml:"makedepends"`
	CheckDepends []string `yaml:"checkdepends"`
	Conflicts    []string `yaml:"conflicts"`
	Provides     []string `yaml:"provides"`
	Replaces     []string `yaml:"replaces"`
	Backup       []string `yaml:"backup"`

	InstallScript string `yaml:"install_script"`

	Sources []Source `yaml:"sources"`

	// VersionFrom selects dynamic version resolution. Empty means the
	// literal Version field is used; "git" derives the version from the
	// tag history of the first git source.
	VersionFrom string `yaml:"version_from"`

	// Lifecycle hooks, shell fragments run with sh -e. Only Package is
	// mandatory.
	Prepare string `yaml:"prepare"`
	Build   string `yaml:"build"`
	Check   string `yaml:"check"`
	Package string `yaml:"package"`

	// Dir is the directory the manifest was loaded from
	Dir string `yaml:"-"`
}

// Source is one entry of the sources list
type Source struct {
	URL      string `yaml:"url"`
	Checksum string `yaml:"checksum"`
}

// IsGit reports whether the source is a git clone
func (s Source) IsGit() bool {
	return strings.HasPrefix(s.URL, "git+")
}

// IsRemote reports whether the source is fetched over HTTP
func (s Source) IsRemote() bool {
	return strings.HasPrefix(s.URL, "http://") || strings.HasPrefix(s.URL, "https://")
}

// CloneURL strips the git+ scheme prefix and any fragment
func (s Source) CloneURL() string {
	url := strings.TrimPrefix(s.URL, "git+")
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}
	return url
}

// FileName is the local name a fetched source is stored under
func (s Source) FileName() string {
	url := strings.TrimPrefix(s.URL, "git+")
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}
	url = strings.TrimSuffix(url, "/")
	if idx := strings.LastIndex(url, "/"); idx != -1 {
		url = url[idx+1:]
	}
	if s.IsGit() {
		url = strings.TrimSuffix(url, ".git")
	}
	return url
}

// FullVersion renders [epoch:]version-release for the manifest
func (m *Manifest) FullVersion() string {
	if m.Epoch > 0 {
		return fmt.Sprintf("%d:%s-%d", m.Epoch, m.Version, m.Release)
	}
	return fmt.Sprintf("%s-%d", m.Version, m.Release)
}

// GitSource returns the first git source, if any
func (m *Manifest) GitSource() (Source, bool) {
	for _, s := range m.Sources {
		if s.IsGit() {
			return s, true
		}
	}
	return Source{}, false
}
