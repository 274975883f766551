// internal/cli/inspect.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith/pkg/archive"
)

var inspectFiles bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [artifact]",
	Short: "Show metadata of a built package",
	Long:  `Display the metadata and optionally the file list of a built package artifact (.pkg.tar.zst, .deb or .rpm).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectFiles, "files", "f", false, "also list the packaged files")
}

func runInspect(cmd *cobra.Command, args []string) error {
	info, entries, err := archive.Inspect(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name:        %s\n", info.Name)
	fmt.Printf("Version:     %s\n", info.Version)
	fmt.Printf("Architecture: %s\n", info.Arch)
	if info.Description != "" {
		fmt.Printf("Description: %s\n", info.Description)
	}
	if info.URL != "" {
		fmt.Printf("URL:         %s\n", info.URL)
	}
	if info.Packager != "" {
		fmt.Printf("Packager:    %s\n", info.Packager)
	}
	if len(info.License) > 0 {
		fmt.Printf("License:     %s\n", strings.Join(info.License, " "))
	}
	if len(info.Depends) > 0 {
		fmt.Printf("Depends:     %s\n", strings.Join(info.Depends, " "))
	}
	if len(info.Provides) > 0 {
		fmt.Printf("Provides:    %s\n", strings.Join(info.Provides, " "))
	}
	if len(info.Conflicts) > 0 {
		fmt.Printf("Conflicts:   %s\n", strings.Join(info.Conflicts, " "))
	}
	if info.Size > 0 {
		fmt.Printf("Size:        %d\n", info.Size)
	}
	fmt.Printf("Files:       %d\n", len(entries))

	if inspectFiles {
		for _, entry := range entries {
			if entry.Link != "" {
				fmt.Printf("  %s -> %s\n", entry.Path, entry.Link)
				continue
			}
			fmt.Printf("  %s\n", entry.Path)
		}
	}

	return nil
}
