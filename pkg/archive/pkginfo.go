// pkg/archive/pkginfo.go
package archive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WritePkginfo renders the .PKGINFO metadata block
func WritePkginfo(w io.Writer, info *Info) error {
	var b strings.Builder

	b.WriteString("# Generated by pkgsmith\n")
	writePkginfoField(&b, "pkgname", info.Name)
	writePkginfoField(&b, "pkgbase", info.Base)
	writePkginfoField(&b, "pkgver", info.Version)
	writePkginfoField(&b, "pkgdesc", info.Description)
	writePkginfoField(&b, "url", info.URL)
	writePkginfoField(&b, "builddate", strconv.FormatInt(info.BuildDate, 10))
	writePkginfoField(&b, "packager", info.Packager)
	writePkginfoField(&b, "size", strconv.FormatInt(info.Size, 10))
	writePkginfoField(&b, "arch", info.Arch)
	for _, v := range info.License {
		writePkginfoField(&b, "license", v)
	}
	for _, v := range info.Replaces {
		writePkginfoField(&b, "replaces", v)
	}
	for _, v := range info.Conflicts {
		writePkginfoField(&b, "conflict", v)
	}
	for _, v := range info.Provides {
		writePkginfoField(&b, "provides", v)
	}
	for _, v := range info.Depends {
		writePkginfoField(&b, "depend", v)
	}
	for _, v := range info.OptDepends {
		writePkginfoField(&b, "optdepend", v)
	}
	for _, v := range info.MakeDepends {
		writePkginfoField(&b, "makedepend", v)
	}
	for _, v := range info.Backup {
		writePkginfoField(&b, "backup", v)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ParsePkginfo reads a .PKGINFO metadata block
func ParsePkginfo(r io.Reader) (*Info, error) {
	scanner := bufio.NewScanner(r)
	info := &Info{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "pkgname":
			info.Name = value
		case "pkgbase":
			info.Base = value
		case "pkgver":
			info.Version = value
		case "pkgdesc":
			info.Description = value
		case "url":
			info.URL = value
		case "packager":
			info.Packager = value
		case "arch":
			info.Arch = value
		case "builddate":
			info.BuildDate, _ = strconv.ParseInt(value, 10, 64)
		case "size":
			info.Size, _ = strconv.ParseInt(value, 10, 64)
		case "license":
			info.License = append(info.License, value)
		case "replaces":
			info.Replaces = append(info.Replaces, value)
		case "conflict":
			info.Conflicts = append(info.Conflicts, value)
		case "provides":
			info.Provides = append(info.Provides, value)
		case "depend":
			info.Depends = append(info.Depends, value)
		case "optdepend":
			info.OptDepends = append(info.OptDepends, value)
		case "makedepend":
			info.MakeDepends = append(info.MakeDepends, value)
		case "backup":
			info.Backup = append(info.Backup, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading .PKGINFO: %w", err)
	}

	if info.Name == "" {
		return nil, fmt.Errorf(".PKGINFO has no pkgname")
	}

	return info, nil
}

func writePkginfoField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteString(" = ")
	b.WriteString(value)
	b.WriteByte('\n')
}
