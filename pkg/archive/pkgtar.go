// pkg/archive/pkgtar.go
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// WritePackage archives the staging root as a zstd-compressed package
// with the .PKGINFO metadata entry first. The walk order is lexical so
// identical trees produce identically ordered archives.
func WritePackage(path string, info *Info, pkgdir string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd init: %w", err)
	}

	tw := tar.NewWriter(zw)

	var meta bytes.Buffer
	if err := WritePkginfo(&meta, info); err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:    ".PKGINFO",
		Mode:    0644,
		Size:    int64(meta.Len()),
		ModTime: time.Unix(info.BuildDate, 0),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(meta.Bytes()); err != nil {
		return err
	}

	if err := tarTree(tw, pkgdir, ""); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadPackage opens a built package and returns its metadata and file
// listing. Known metadata entries (.PKGINFO and friends) are not part
// of the listing; anything else, dotfiles included, is.
func ReadPackage(path string) (*Info, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("zstd init: %w", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)

	var info *Info
	var entries []Entry

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading tar entry: %w", err)
		}

		name := strings.TrimSuffix(header.Name, "/")

		switch name {
		case ".PKGINFO":
			info, err = ParsePkginfo(tr)
			if err != nil {
				return nil, nil, err
			}
			continue
		case ".BUILDINFO", ".MTREE", ".INSTALL", ".CHANGELOG":
			continue
		}

		entry := Entry{
			Path: name,
			Mode: header.FileInfo().Mode(),
			Link: header.Linkname,
		}
		if header.Typeflag == tar.TypeReg {
			entry.Size = header.Size
		}
		entries = append(entries, entry)
	}

	if info == nil {
		return nil, nil, fmt.Errorf("%s carries no .PKGINFO", filepath.Base(path))
	}

	return info, entries, nil
}

// tarTree appends the tree under dir to the tar writer. Entry names are
// prefixed with prefix ("" for package archives, "./" for deb data
// members).
func tarTree(tw *tar.Writer, dir, prefix string) error {
	root := filepath.Clean(dir)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = prefix + rel
		if info.IsDir() {
			header.Name += "/"
		}
		header.Uid = 0
		header.Gid = 0
		header.Uname = "root"
		header.Gname = "root"

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			if _, err := io.Copy(tw, f); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
		return nil
	})
}
