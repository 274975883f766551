// pkg/repodb/db_test.go
package repodb

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(name, version string) *Record {
	return &Record{
		Name:         name,
		Version:      version,
		Base:         strings.TrimSuffix(name, "-git"),
		Description:  "Automated ACME certificate manager",
		URL:          "https://github.com/moepman/acertmgr",
		Architecture: "any",
		BuildDate:    1756598400,
		Packager:     "Test Packager <test@example.com>",
		CSize:        2048,
		ISize:        8192,
		Filename:     name + "-" + version + "-any.pkg.tar.zst",
		SHA256Sum:    strings.Repeat("ab", 32),
		License:      []string{"ISC"},
		Depends:      []string{"python", "python-cryptography"},
		Provides:     []string{"acertmgr"},
		Conflicts:    []string{"acertmgr"},
	}
}

func TestAddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.db.tar.gz")

	rec := sampleRecord("acertmgr-git", "1.0.1.r3.g2a41cd7-1")
	require.NoError(t, Add(path, rec))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestAddReplacesSameName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.db.tar.gz")

	require.NoError(t, Add(path, sampleRecord("acertmgr-git", "1.0.1.r3.g2a41cd7-1")))
	require.NoError(t, Add(path, sampleRecord("acertmgr-git", "1.0.1.r5.g9f21c03-1")))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1.0.1.r5.g9f21c03-1", records[0].Version)
}

func TestAddSortsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.db.tar.gz")

	require.NoError(t, Add(path,
		sampleRecord("zlib-ng", "2.1.6-1"),
		sampleRecord("acertmgr-git", "1.0.1.r3.g2a41cd7-1"),
		sampleRecord("mkcert", "1.4.4-2"),
	))

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "acertmgr-git", records[0].Name)
	assert.Equal(t, "mkcert", records[1].Name)
	assert.Equal(t, "zlib-ng", records[2].Name)
}

func TestLoadMissingDatabase(t *testing.T) {
	records, err := Load(filepath.Join(t.TempDir(), "nope.db.tar.gz"))
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestRenderDesc(t *testing.T) {
	desc := renderDesc(sampleRecord("acertmgr-git", "1.0.1.r3.g2a41cd7-1"))

	assert.Contains(t, desc, "%NAME%\nacertmgr-git\n\n")
	assert.Contains(t, desc, "%VERSION%\n1.0.1.r3.g2a41cd7-1\n\n")
	assert.Contains(t, desc, "%DEPENDS%\npython\npython-cryptography\n\n")
	assert.NotContains(t, desc, "%GROUPS%")
}

func TestParseDescSkipsUnknownFields(t *testing.T) {
	rec, err := parseDesc(strings.NewReader("%NAME%\nfoo\n\n%PGPSIG%\nbase64stuff\n\n%VERSION%\n1.0-1\n"))
	require.NoError(t, err)
	assert.Equal(t, "foo", rec.Name)
	assert.Equal(t, "1.0-1", rec.Version)
}

func TestParseDescRequiresName(t *testing.T) {
	_, err := parseDesc(strings.NewReader("%VERSION%\n1.0-1\n"))
	assert.Error(t, err)
}
