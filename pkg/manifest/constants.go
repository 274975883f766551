// pkg/manifest/constants.go
package manifest

const (
	// FileName is the recipe manifest file looked up inside a recipe
	// directory
	FileName = "pkgsmith.yaml"

	// ChecksumSkip is the placeholder that disables verification for a
	// source entry
	ChecksumSkip = "SKIP"

	// ChecksumPrefix is the scheme prefix of a verifiable checksum
	ChecksumPrefix = "sha256:"

	// ArchAny marks an architecture-independent package
	ArchAny = "any"

	// VersionFromGit derives the package version from git tag history
	VersionFromGit = "git"
)

// nameChars are the characters allowed in a package name
const nameChars = "abcdefghijklmnopqrstuvwxyz0123456789@._+-"
