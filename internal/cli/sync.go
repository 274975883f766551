// internal/cli/sync.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith/pkg/registry"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the recipe collection",
	Long:  `Clone the configured recipe collection and refresh the local recipe cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return registry.Sync(config.CachePath, config.RecipeRepo)
	},
}
