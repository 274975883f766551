// pkg/repodb/db.go
package repodb

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Load reads a repository sync database file
func Load(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseDatabase(f)
}

// ParseDatabase parses a sync database (a tar.gz of desc entries)
func ParseDatabase(r io.Reader) ([]*Record, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	var records []*Record

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		// Each package lives in a name-version/desc entry
		if strings.HasSuffix(header.Name, "/desc") {
			rec, err := parseDesc(tarReader)
			if err != nil {
				continue
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

// Add inserts the records into the database at path, replacing any
// existing entry of the same name, and rewrites the file atomically.
func Add(path string, records ...*Record) error {
	existing, err := Load(path)
	if err != nil {
		return fmt.Errorf("loading database: %w", err)
	}

	byName := make(map[string]*Record, len(existing)+len(records))
	for _, rec := range existing {
		byName[rec.Name] = rec
	}
	for _, rec := range records {
		if rec.Name == "" {
			return fmt.Errorf("record has no name")
		}
		byName[rec.Name] = rec
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".repodb-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	gzWriter := gzip.NewWriter(tmp)
	tarWriter := tar.NewWriter(gzWriter)

	now := time.Now()
	for _, name := range names {
		rec := byName[name]
		desc := renderDesc(rec)
		dir := rec.Name + "-" + rec.Version

		dirHdr := &tar.Header{
			Name:     dir + "/",
			Mode:     0755,
			Typeflag: tar.TypeDir,
			ModTime:  now,
		}
		if err := tarWriter.WriteHeader(dirHdr); err != nil {
			return err
		}

		hdr := &tar.Header{
			Name:    dir + "/desc",
			Mode:    0644,
			Size:    int64(len(desc)),
			ModTime: now,
		}
		if err := tarWriter.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tarWriter.Write([]byte(desc)); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	if err := gzWriter.Close(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// parseDesc parses the text content of one desc entry
func parseDesc(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	rec := &Record{}
	var currentHeader string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			currentHeader = line
			continue
		}

		switch currentHeader {
		case "%NAME%":
			rec.Name = line
		case "%VERSION%":
			rec.Version = line
		case "%BASE%":
			rec.Base = line
		case "%DESC%":
			rec.Description = line
		case "%URL%":
			rec.URL = line
		case "%ARCH%":
			rec.Architecture = line
		case "%BUILDDATE%":
			if val, err := strconv.ParseInt(line, 10, 64); err == nil {
				rec.BuildDate = val
			}
		case "%PACKAGER%":
			rec.Packager = line
		case "%ISIZE%":
			if val, err := strconv.ParseInt(line, 10, 64); err == nil {
				rec.ISize = val
			}
		case "%CSIZE%":
			if val, err := strconv.ParseInt(line, 10, 64); err == nil {
				rec.CSize = val
			}
		case "%SHA256SUM%":
			rec.SHA256Sum = line
		case "%FILENAME%":
			rec.Filename = line
		case "%LICENSE%":
			rec.License = append(rec.License, line)
		case "%GROUPS%":
			rec.Groups = append(rec.Groups, line)
		case "%DEPENDS%":
			rec.Depends = append(rec.Depends, line)
		case "%OPTDEPENDS%":
			rec.OptDepends = append(rec.OptDepends, line)
		case "%MAKEDEPENDS%":
			rec.MakeDepends = append(rec.MakeDepends, line)
		case "%CHECKDEPENDS%":
			rec.CheckDepends = append(rec.CheckDepends, line)
		case "%CONFLICTS%":
			rec.Conflicts = append(rec.Conflicts, line)
		case "%PROVIDES%":
			rec.Provides = append(rec.Provides, line)
		case "%REPLACES%":
			rec.Replaces = append(rec.Replaces, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("desc entry has no %%NAME%%")
	}
	return rec, nil
}

// renderDesc renders a record in %FIELD% block form
func renderDesc(rec *Record) string {
	var b strings.Builder

	writeBlock(&b, "FILENAME", rec.Filename)
	writeBlock(&b, "NAME", rec.Name)
	writeBlock(&b, "BASE", rec.Base)
	writeBlock(&b, "VERSION", rec.Version)
	writeBlock(&b, "DESC", rec.Description)
	writeBlockList(&b, "GROUPS", rec.Groups)
	writeBlockInt(&b, "CSIZE", rec.CSize)
	writeBlockInt(&b, "ISIZE", rec.ISize)
	writeBlock(&b, "SHA256SUM", rec.SHA256Sum)
	writeBlock(&b, "URL", rec.URL)
	writeBlockList(&b, "LICENSE", rec.License)
	writeBlock(&b, "ARCH", rec.Architecture)
	writeBlockInt(&b, "BUILDDATE", rec.BuildDate)
	writeBlock(&b, "PACKAGER", rec.Packager)
	writeBlockList(&b, "REPLACES", rec.Replaces)
	writeBlockList(&b, "CONFLICTS", rec.Conflicts)
	writeBlockList(&b, "PROVIDES", rec.Provides)
	writeBlockList(&b, "DEPENDS", rec.Depends)
	writeBlockList(&b, "OPTDEPENDS", rec.OptDepends)
	writeBlockList(&b, "MAKEDEPENDS", rec.MakeDepends)
	writeBlockList(&b, "CHECKDEPENDS", rec.CheckDepends)

	return b.String()
}

func writeBlock(b *strings.Builder, field, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%%%s%%\n%s\n\n", field, value)
}

func writeBlockInt(b *strings.Builder, field string, value int64) {
	if value == 0 {
		return
	}
	writeBlock(b, field, strconv.FormatInt(value, 10))
}

func writeBlockList(b *strings.Builder, field string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%%%s%%\n", field)
	for _, v := range values {
		fmt.Fprintf(b, "%s\n", v)
	}
	b.WriteString("\n")
}
