// pkg/repodb/types.go
package repodb

// Record is one package entry of a repository sync database
type Record struct {
	Name         string
	Version      string // Full version, [epoch:]ver-rel
	Base         string
	Description  string
	URL          string
	Architecture string
	BuildDate    int64
	Packager     string
	CSize        int64  // Compressed artifact size
	ISize        int64  // Installed size
	Filename     string // The package artifact filename
	SHA256Sum    string
	License      []string
	Groups       []string
	Depends      []string
	OptDepends   []string
	MakeDepends  []string
	CheckDepends []string
	Conflicts    []string
	Provides     []string
	Replaces     []string
}
