// errors.go
package pkgsmith

import (
	"errors"
	"fmt"

	"github.com/pkgsmith/pkgsmith/pkg/build"
	"github.com/pkgsmith/pkgsmith/pkg/source"
)

var (
	// ErrManifestInvalid indicates the recipe manifest failed validation
	ErrManifestInvalid = errors.New("invalid manifest")

	// ErrRecipeNotFound indicates the recipe was not found
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrChecksumMismatch indicates a source checksum verification failure
	ErrChecksumMismatch = source.ErrChecksumMismatch

	// ErrHookFailed indicates a lifecycle hook exited unsuccessfully
	ErrHookFailed = build.ErrHookFailed

	// ErrStagingViolation indicates the package hook produced files that
	// escape the staging root
	ErrStagingViolation = errors.New("staging root violation")

	// ErrUnsupportedFormat indicates an archive format that is not handled
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrArchNotSupported indicates the recipe does not build on this
	// architecture
	ErrArchNotSupported = errors.New("architecture not supported")
)

// Error wraps an error with additional context
type Error struct {
	Op     string // Operation that failed
	Recipe string // Recipe name if applicable
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Recipe != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Recipe, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
