// pkg/source/types.go
package source

import (
	"log"
	"time"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

// Config configures the source fetcher
type Config struct {
	CachePath string        // Where downloads and git mirrors are kept
	Timeout   time.Duration // Network timeout
	Debug     bool          // Enable debug logging
	Logger    *log.Logger   // Custom logger
}

// Fetcher acquires and stages recipe sources
type Fetcher struct {
	client *Client
	config *Config
	logger *log.Logger
}

// Kind classifies how a fetched source is staged into the build tree
type Kind int

const (
	KindFile    Kind = iota // Copied as-is
	KindArchive             // Unpacked into the source directory
	KindGit                 // Cloned as a working tree
)

// Fetched is one acquired source entry
type Fetched struct {
	Source manifest.Source
	Path   string // Local path of the download, clone or file
	Kind   Kind
}
