// internal/cli/vercmp.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith/pkg/version"
)

var vercmpCmd = &cobra.Command{
	Use:   "vercmp [a] [b]",
	Short: "Compare two package versions",
	Long: `Compare two package versions and print -1, 0 or 1.

Versions take the form [epoch:]version[-release].`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Compare(args[0], args[1]))
	},
}
