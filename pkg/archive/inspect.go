// pkg/archive/inspect.go
package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sassoftware/go-rpmutils"
)

// Inspect reads back a built artifact of any supported format and
// returns its metadata and file listing. Supported: .pkg.tar.zst,
// .deb, .rpm.
func Inspect(path string) (*Info, []Entry, error) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".pkg.tar.zst"):
		return ReadPackage(path)
	case strings.HasSuffix(name, ".deb"):
		return readDeb(path)
	case strings.HasSuffix(name, ".rpm"):
		return readRpm(path)
	}
	return nil, nil, fmt.Errorf("unsupported artifact format: %s", filepath.Base(path))
}

// readRpm extracts metadata and the payload file list from an RPM
func readRpm(path string) (*Info, []Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rpm: %w", err)
	}

	nevra, err := rpm.Header.GetNEVRA()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rpm metadata: %w", err)
	}

	version := nevra.Version + "-" + nevra.Release
	if nevra.Epoch != "" && nevra.Epoch != "0" {
		version = nevra.Epoch + ":" + version
	}

	info := &Info{
		Name:    nevra.Name,
		Base:    nevra.Name,
		Version: version,
		Arch:    nevra.Arch,
	}

	files, err := rpm.Header.GetFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rpm file list: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		entry := Entry{
			Path: strings.TrimPrefix(file.Name(), "/"),
			Size: file.Size(),
			Mode: fs.FileMode(file.Mode()),
			Link: file.Linkname(),
		}
		info.Size += file.Size()
		entries = append(entries, entry)
	}

	return info, entries, nil
}
