// internal/cli/lint.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith/pkg/manifest"
)

var lintCmd = &cobra.Command{
	Use:   "lint [recipe]",
	Short: "Validate a recipe manifest",
	Long:  `Check a recipe manifest against the recipe rules and report every problem found.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	problems := m.Validate()
	if len(problems) == 0 {
		fmt.Printf("✓ %s is valid\n", m.Name)
		return nil
	}

	for _, p := range problems {
		fmt.Printf("  %s\n", p)
	}
	return fmt.Errorf("%d problem(s) in %s", len(problems), args[0])
}
