// internal/cli/srcinfo.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

var srcinfoCmd = &cobra.Command{
	Use:   "srcinfo [recipe]",
	Short: "Print the flat metadata summary of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Print(m.Summary())
		return nil
	},
}
