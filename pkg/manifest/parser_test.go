// pkg/manifest/parser_test.go
package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acertmgrRecipe = `name: acertmgr-git
base: acertmgr
description: Automated ACME certificate manager
url: https://github.com/moepman/acertmgr
license: [ISC]
arch: [any]
depends:
  - python
  - python-cryptography
optdepends:
  - "python-idna: support for internationalized domain names"
makedepends:
  - git
  - python-setuptools
provides: [acertmgr]
conflicts: [acertmgr]
sources:
  - url: git+https://github.com/moepman/acertmgr.git
    checksum: SKIP
version_from: git
build: |
  cd acertmgr
  python setup.py build
package: |
  cd acertmgr
  python setup.py install --root="$PKGDIR" --optimize=1
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(acertmgrRecipe))
	require.NoError(t, err)

	assert.Equal(t, "acertmgr-git", m.Name)
	assert.Equal(t, "acertmgr", m.Base)
	assert.Equal(t, 1, m.Release)
	assert.Equal(t, []string{"any"}, m.Arch)
	assert.Equal(t, []string{"python", "python-cryptography"}, m.Depends)
	assert.Equal(t, VersionFromGit, m.VersionFrom)
	require.Len(t, m.Sources, 1)
	assert.True(t, m.Sources[0].IsGit())
	assert.Equal(t, "https://github.com/moepman/acertmgr.git", m.Sources[0].CloneURL())
	assert.Equal(t, "acertmgr", m.Sources[0].FileName())
	assert.Empty(t, m.Validate())
}

func TestParseDefaults(t *testing.T) {
	m, err := Parse([]byte("name: tiny\nversion: \"1.0\"\npackage: |\n  true\n"))
	require.NoError(t, err)

	assert.Equal(t, "tiny", m.Base)
	assert.Equal(t, 1, m.Release)
	assert.Equal(t, []string{ArchAny}, m.Arch)
	assert.Empty(t, m.Validate())
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("name: x\npkgver: 1.0\n"))
	assert.Error(t, err)
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(acertmgrRecipe), 0644))

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "acertmgr-git", m.Name)
	assert.Equal(t, dir, m.Dir)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Manifest {
		m, err := Parse([]byte(acertmgrRecipe))
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name    string
		mutate  func(*Manifest)
		problem string
	}{
		{
			"empty name",
			func(m *Manifest) { m.Name = "" },
			"name is required",
		},
		{
			"leading hyphen",
			func(m *Manifest) { m.Name = "-bad" },
			"must not start with a hyphen or dot",
		},
		{
			"invalid character",
			func(m *Manifest) { m.Name = "Bad Name" },
			"invalid character",
		},
		{
			"missing version",
			func(m *Manifest) { m.VersionFrom = "" },
			"version is required",
		},
		{
			"reserved version characters",
			func(m *Manifest) { m.VersionFrom = ""; m.Version = "1.0-2" },
			"reserved characters",
		},
		{
			"unknown version_from",
			func(m *Manifest) { m.VersionFrom = "svn" },
			"unknown version_from",
		},
		{
			"version_from without git source",
			func(m *Manifest) { m.Sources = nil },
			"requires a git source",
		},
		{
			"bad release",
			func(m *Manifest) { m.Release = -1 },
			"release must be at least 1",
		},
		{
			"missing checksum",
			func(m *Manifest) { m.Sources[0].Checksum = "" },
			"checksum is required",
		},
		{
			"malformed sha256",
			func(m *Manifest) {
				m.Sources[0] = Source{URL: "https://example.com/x.tar.gz", Checksum: "sha256:abcd"}
				m.VersionFrom = ""
				m.Version = "1.0"
			},
			"malformed sha256 checksum",
		},
		{
			"unsupported checksum scheme",
			func(m *Manifest) { m.Sources[0].Checksum = "md5:d41d8cd98f00b204e9800998ecf8427e" },
			"unsupported checksum scheme",
		},
		{
			"missing package hook",
			func(m *Manifest) { m.Package = "" },
			"package hook is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			problems := m.Validate()
			require.NotEmpty(t, problems)

			found := false
			for _, p := range problems {
				if strings.Contains(p, tt.problem) {
					found = true
				}
			}
			assert.True(t, found, "expected a problem containing %q, got %v", tt.problem, problems)
		})
	}
}

func TestFullVersion(t *testing.T) {
	m := &Manifest{Version: "1.0.1", Release: 2}
	assert.Equal(t, "1.0.1-2", m.FullVersion())

	m.Epoch = 1
	assert.Equal(t, "1:1.0.1-2", m.FullVersion())
}

func TestSummary(t *testing.T) {
	m, err := Parse([]byte(acertmgrRecipe))
	require.NoError(t, err)
	m.Version = "1.0.1.r3.g2a41cd7"

	summary := m.Summary()
	assert.Contains(t, summary, "pkgbase = acertmgr\n")
	assert.Contains(t, summary, "\tpkgver = 1.0.1.r3.g2a41cd7\n")
	assert.Contains(t, summary, "\tpkgrel = 1\n")
	assert.Contains(t, summary, "\tdepends = python\n")
	assert.Contains(t, summary, "\tsource = git+https://github.com/moepman/acertmgr.git\n")
	assert.Contains(t, summary, "\tsha256sums = SKIP\n")
	assert.Contains(t, summary, "\npkgname = acertmgr-git\n")
}
