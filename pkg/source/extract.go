// pkg/source/extract.go
package source

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var archiveSuffixes = []string{
	".tar.gz", ".tgz", ".tar.xz", ".tar.zst", ".tar",
	".cpio", ".cpio.gz",
}

// Extract unpacks a source archive into dest. Entries that would land
// outside dest (traversal names, absolute paths, escaping symlinks) are
// rejected.
func Extract(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		return extractTar(tar.NewReader(gzReader), dest)

	case strings.HasSuffix(name, ".tar.xz"):
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		return extractTar(tar.NewReader(xzReader), dest)

	case strings.HasSuffix(name, ".tar.zst"):
		zstdReader, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zstdReader.Close()
		return extractTar(tar.NewReader(zstdReader), dest)

	case strings.HasSuffix(name, ".tar"):
		return extractTar(tar.NewReader(f), dest)

	case strings.HasSuffix(name, ".cpio.gz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		return extractCpio(cpio.NewReader(gzReader), dest)

	case strings.HasSuffix(name, ".cpio"):
		return extractCpio(cpio.NewReader(f), dest)
	}

	return fmt.Errorf("unsupported archive format: %s", filepath.Base(src))
}

func extractTar(tr *tar.Reader, dest string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target, err := secureJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(dest, target, header.Linkname); err != nil {
				return err
			}
		}
	}
	return nil
}

func extractCpio(cr *cpio.Reader, dest string) error {
	for {
		header, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading cpio entry: %w", err)
		}

		// The trailer and the "." entry carry no payload
		if header.Name == "." || header.Name == "TRAILER!!!" {
			continue
		}

		target, err := secureJoin(dest, header.Name)
		if err != nil {
			return err
		}

		switch {
		case header.Mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case header.Mode&cpio.TypeSymlink == cpio.TypeSymlink:
			if err := writeSymlink(dest, target, header.Linkname); err != nil {
				return err
			}
		case header.Mode.IsRegular():
			if err := writeFile(target, cr, os.FileMode(header.Mode.Perm())); err != nil {
				return err
			}
		}
	}
	return nil
}

// secureJoin resolves an archive entry name under dest and rejects
// anything that escapes it
func secureJoin(dest, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	target := filepath.Join(dest, name)
	// "./" or "." is the destination root itself, emitted by tar for
	// archives packed from the current directory
	if target == filepath.Clean(dest) {
		return target, nil
	}
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes the destination", name)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeSymlink(dest, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("symlink %q has an absolute target %q", target, linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	if !strings.HasPrefix(resolved, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("symlink %q escapes the destination", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	os.Remove(target)
	return os.Symlink(linkname, target)
}
