// pkg/build/types.go
package build

import (
	"io/fs"
	"log"
)

// Config configures the lifecycle runner
type Config struct {
	BuildRoot string      // Directory build trees are created under
	Shell     string      // Shell used to run hooks, /bin/sh if empty
	Debug     bool        // Enable debug logging and hook output streaming
	Logger    *log.Logger // Custom logger
}

// Runner executes recipe lifecycle hooks inside a build tree
type Runner struct {
	config *Config
	logger *log.Logger
}

// Tree is the on-disk layout of one package build
type Tree struct {
	Root     string // Per-recipe build root
	StartDir string // Directory of the manifest
	SrcDir   string // Where sources are staged and hooks run
	PkgDir   string // Staging root the package hook installs into
}

// FileEntry describes one file of the staged package tree
type FileEntry struct {
	Path string      // Path relative to the staging root
	Size int64       // Size in bytes, 0 for directories and symlinks
	Mode fs.FileMode // File mode
	Link string      // Symlink target, empty otherwise
}
