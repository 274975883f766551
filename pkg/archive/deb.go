// pkg/archive/deb.go
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blakesmith/ar"
	"github.com/ulikunitz/xz"
)

// debArch maps package architectures to their Debian names
var debArch = map[string]string{
	"x86_64":  "amd64",
	"i686":    "i386",
	"aarch64": "arm64",
	"armv7h":  "armhf",
	"riscv64": "riscv64",
	"any":     "all",
}

// DebFileName is the canonical .deb artifact name of a package
func DebFileName(info *Info) string {
	arch := debArch[info.Arch]
	if arch == "" {
		arch = info.Arch
	}
	version := strings.TrimPrefix(info.Version, "0:")
	return fmt.Sprintf("%s_%s_%s.deb", info.Name, version, arch)
}

// WriteDeb archives the staging root as a Debian binary package:
// an ar archive of debian-binary, control.tar.gz and data.tar.xz.
func WriteDeb(path string, info *Info, pkgdir string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	control, err := buildControlTar(info)
	if err != nil {
		return err
	}

	data, err := buildDataTar(pkgdir)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := ar.NewWriter(f)
	if err := w.WriteGlobalHeader(); err != nil {
		return fmt.Errorf("writing ar header: %w", err)
	}

	now := time.Unix(info.BuildDate, 0)
	members := []struct {
		name string
		body []byte
	}{
		{"debian-binary", []byte("2.0\n")},
		{"control.tar.gz", control},
		{"data.tar.xz", data},
	}

	for _, m := range members {
		hdr := &ar.Header{
			Name:    m.name,
			ModTime: now,
			Mode:    0644,
			Size:    int64(len(m.body)),
		}
		if err := w.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing %s header: %w", m.name, err)
		}
		if _, err := w.Write(m.body); err != nil {
			return fmt.Errorf("writing %s: %w", m.name, err)
		}
	}

	return f.Close()
}

// buildControlTar renders the control stanza into control.tar.gz
func buildControlTar(info *Info) ([]byte, error) {
	stanza := controlStanza(info)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	hdr := &tar.Header{
		Name:    "./control",
		Mode:    0644,
		Size:    int64(len(stanza)),
		ModTime: time.Unix(info.BuildDate, 0),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := tw.Write([]byte(stanza)); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// buildDataTar packs the staging root into data.tar.xz with ./ entry
// names
func buildDataTar(pkgdir string) ([]byte, error) {
	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz init: %w", err)
	}

	tw := tar.NewWriter(xzw)
	if err := tarTree(tw, pkgdir, "./"); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := xzw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// controlStanza renders the Debian control fields from package metadata
func controlStanza(info *Info) string {
	var b strings.Builder

	arch := debArch[info.Arch]
	if arch == "" {
		arch = info.Arch
	}

	fmt.Fprintf(&b, "Package: %s\n", info.Name)
	fmt.Fprintf(&b, "Version: %s\n", info.Version)
	fmt.Fprintf(&b, "Architecture: %s\n", arch)
	if info.Packager != "" {
		fmt.Fprintf(&b, "Maintainer: %s\n", info.Packager)
	}
	fmt.Fprintf(&b, "Installed-Size: %d\n", (info.Size+1023)/1024)
	writeControlList(&b, "Depends", info.Depends)
	writeControlList(&b, "Conflicts", info.Conflicts)
	writeControlList(&b, "Provides", info.Provides)
	writeControlList(&b, "Replaces", info.Replaces)
	if info.URL != "" {
		fmt.Fprintf(&b, "Homepage: %s\n", info.URL)
	}
	desc := info.Description
	if desc == "" {
		desc = info.Name
	}
	fmt.Fprintf(&b, "Description: %s\n", desc)

	return b.String()
}

func writeControlList(b *strings.Builder, field string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", field, strings.Join(values, ", "))
}

// readDeb parses a .deb back into metadata and its file listing
func readDeb(path string) (*Info, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := ar.NewReader(f)

	var info *Info
	var entries []Entry

	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading ar entry: %w", err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		switch {
		case strings.HasPrefix(name, "control.tar"):
			info, err = readControlMember(reader, name)
		case strings.HasPrefix(name, "data.tar"):
			entries, err = readDataMember(reader, name)
		default:
			continue
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if info == nil {
		return nil, nil, fmt.Errorf("no control.tar.* found in %s", filepath.Base(path))
	}

	return info, entries, nil
}

func readControlMember(r io.Reader, name string) (*Info, error) {
	tr, err := memberTarReader(r, name)
	if err != nil {
		return nil, err
	}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading control member: %w", err)
		}
		if strings.TrimPrefix(header.Name, "./") == "control" {
			return parseControl(tr)
		}
	}

	return nil, fmt.Errorf("control member has no control file")
}

func readDataMember(r io.Reader, name string) ([]Entry, error) {
	tr, err := memberTarReader(r, name)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading data member: %w", err)
		}

		path := strings.TrimSuffix(strings.TrimPrefix(header.Name, "./"), "/")
		if path == "" {
			continue
		}

		entry := Entry{
			Path: path,
			Mode: header.FileInfo().Mode(),
			Link: header.Linkname,
		}
		if header.Typeflag == tar.TypeReg {
			entry.Size = header.Size
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// memberTarReader wraps a .deb member in the right decompressor
func memberTarReader(r io.Reader, name string) (*tar.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return tar.NewReader(gz), nil
	case strings.HasSuffix(name, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return tar.NewReader(xr), nil
	case strings.HasSuffix(name, ".tar"):
		return tar.NewReader(r), nil
	}
	return nil, fmt.Errorf("unsupported deb member %s", name)
}

// parseControl reads a Debian control stanza into package metadata
func parseControl(r io.Reader) (*Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	info := &Info{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		field := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch field {
		case "Package":
			info.Name = value
		case "Version":
			info.Version = value
		case "Architecture":
			info.Arch = value
		case "Maintainer":
			info.Packager = value
		case "Homepage":
			info.URL = value
		case "Description":
			info.Description = value
		case "Depends":
			info.Depends = splitControlList(value)
		case "Conflicts":
			info.Conflicts = splitControlList(value)
		case "Provides":
			info.Provides = splitControlList(value)
		case "Replaces":
			info.Replaces = splitControlList(value)
		case "Installed-Size":
			var kib int64
			fmt.Sscanf(value, "%d", &kib)
			info.Size = kib * 1024
		}
	}

	if info.Name == "" {
		return nil, fmt.Errorf("control stanza has no Package field")
	}

	return info, nil
}

func splitControlList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
