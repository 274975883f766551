// pkg/source/verify.go
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

// ErrChecksumMismatch indicates a downloaded source did not match its
// declared checksum
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Verify checks a file against a manifest checksum entry. The SKIP
// placeholder always passes.
func Verify(path, checksum string) error {
	if checksum == manifest.ChecksumSkip {
		return nil
	}
	if !strings.HasPrefix(checksum, manifest.ChecksumPrefix) {
		return fmt.Errorf("unsupported checksum scheme in %q", checksum)
	}
	expected := strings.ToLower(checksum[len(manifest.ChecksumPrefix):])

	actual, err := Sum(path)
	if err != nil {
		return err
	}

	if actual != expected {
		return fmt.Errorf("%w for %s: want %s, got %s", ErrChecksumMismatch, path, expected, actual)
	}
	return nil
}

// Sum computes the hex sha256 digest of a file
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
