// internal/cli/build.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith"
	"github.com/pkgsmith/pkgsmith/pkg/registry"
)

var (
	buildOutputDir     string
	buildFormats       []string
	buildSkipChecksums bool
	buildKeepTree      bool
)

var buildCmd = &cobra.Command{
	Use:   "build [recipe...]",
	Short: "Build one or more packages from recipes",
	Long: `Build packages from recipe manifests.

A recipe argument is a directory (or manifest file) path, or the name
of a recipe from the synced collection.

Examples:
  pkgsmith build ./acertmgr-git
  pkgsmith build acertmgr-git --format=deb
  pkgsmith build ./foo ./bar --output-dir=/srv/packages`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutputDir, "output-dir", "o", "", "directory built packages are written to")
	buildCmd.Flags().StringSliceVar(&buildFormats, "format", nil, "output formats (pacman, deb)")
	buildCmd.Flags().BoolVar(&buildSkipChecksums, "skip-checksums", false, "do not verify source checksums")
	buildCmd.Flags().BoolVar(&buildKeepTree, "keep-build-tree", false, "keep the build tree after a successful build")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	builder := pkgsmith.NewBuilder(config)

	failed := 0
	for _, recipe := range args {
		path, err := resolveRecipe(recipe)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", recipe, err)
			failed++
			continue
		}

		fmt.Printf("Building %s...\n", recipe)

		result, err := builder.Build(ctx, path, &pkgsmith.BuildOptions{
			OutputDir:     buildOutputDir,
			Formats:       buildFormats,
			SkipChecksums: buildSkipChecksums,
			KeepBuildTree: buildKeepTree,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ Failed to build %s: %v\n", recipe, err)
			failed++
			continue
		}

		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		fmt.Printf("✓ Built %s %s (%s)\n", result.Manifest.Name, result.Manifest.FullVersion(), result.Arch)
		fmt.Printf("  fingerprint: %s\n", result.Fingerprint)
		for _, artifact := range result.Artifacts {
			fmt.Printf("  %s\n", artifact)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d builds failed", failed, len(args))
	}
	return nil
}

// resolveRecipe maps an argument to a manifest path: an existing path
// wins, anything else is looked up in the synced recipe collection
func resolveRecipe(arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}

	reg := registry.New(config.CachePath)
	path, err := reg.Resolve(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgsmith.ErrRecipeNotFound, err)
	}
	return path, nil
}
