// pkg/archive/types.go
package archive

import "io/fs"

// Info is the metadata block carried inside a built package
type Info struct {
	Name        string
	Base        string
	Version     string // Full version, [epoch:]ver-rel
	Description string
	URL         string
	Packager    string
	Arch        string
	BuildDate   int64
	Size        int64 // Installed size in bytes

	License     []string
	Depends     []string
	OptDepends  []string
	MakeDepends []string
	Conflicts   []string
	Provides    []string
	Replaces    []string
	Backup      []string
}

// Entry is one file of a package archive
type Entry struct {
	Path string
	Size int64
	Mode fs.FileMode
	Link string // Symlink target, empty otherwise
}

// FileName is the canonical artifact name of a package
func (i *Info) FileName() string {
	return i.Name + "-" + i.Version + "-" + i.Arch + ".pkg.tar.zst"
}
