// pkg/manifest/srcinfo.go
package manifest

import (
	"fmt"
	"strings"
)

// Summary renders the flat key-value form of a manifest consumed by
// repository tooling. List fields repeat their key once per value.
func (m *Manifest) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "pkgbase = %s\n", m.Base)
	writeField(&b, "pkgdesc", m.Description)
	writeField(&b, "pkgver", m.Version)
	writeField(&b, "pkgrel", fmt.Sprintf("%d", m.Release))
	if m.Epoch > 0 {
		writeField(&b, "epoch", fmt.Sprintf("%d", m.Epoch))
	}
	writeField(&b, "url", m.URL)
	if m.InstallScript != "" {
		writeField(&b, "install", m.InstallScript)
	}
	writeList(&b, "arch", m.Arch)
	writeList(&b, "license", m.License)
	writeList(&b, "checkdepends", m.CheckDepends)
	writeList(&b, "makedepends", m.MakeDepends)
	writeList(&b, "depends", m.Depends)
	writeList(&b, "optdepends", m.OptDepends)
	writeList(&b, "provides", m.Provides)
	writeList(&b, "conflicts", m.Conflicts)
	writeList(&b, "replaces", m.Replaces)
	writeList(&b, "backup", m.Backup)
	for _, src := range m.Sources {
		writeField(&b, "source", src.URL)
	}
	for _, src := range m.Sources {
		writeField(&b, "sha256sums", src.Checksum)
	}

	fmt.Fprintf(&b, "\npkgname = %s\n", m.Name)

	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "\t%s = %s\n", key, value)
}

func writeList(b *strings.Builder, key string, values []string) {
	for _, v := range values {
		writeField(b, key, v)
	}
}
