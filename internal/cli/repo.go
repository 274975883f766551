// internal/cli/repo.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgsmith/pkgsmith"
	"github.com/pkgsmith/pkgsmith/pkg/repodb"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage repository sync databases",
}

var repoAddCmd = &cobra.Command{
	Use:   "add [db] [package...]",
	Short: "Add built packages to a sync database",
	Long: `Record built package artifacts in a repository sync database,
replacing older entries of the same name. The database is created when
it does not exist yet.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRepoAdd,
}

var repoListCmd = &cobra.Command{
	Use:   "list [db]",
	Short: "List the packages of a sync database",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoList,
}

func init() {
	repoCmd.AddCommand(repoAddCmd)
	repoCmd.AddCommand(repoListCmd)
}

func runRepoAdd(cmd *cobra.Command, args []string) error {
	db := args[0]

	records := make([]*repodb.Record, 0, len(args)-1)
	for _, pkg := range args[1:] {
		rec, err := pkgsmith.RecordFor(pkg)
		if err != nil {
			return fmt.Errorf("reading %s: %w", pkg, err)
		}
		records = append(records, rec)
	}

	if err := repodb.Add(db, records...); err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Printf("✓ Added %s %s\n", rec.Name, rec.Version)
	}
	return nil
}

func runRepoList(cmd *cobra.Command, args []string) error {
	records, err := repodb.Load(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Database is empty.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s %s (%s) %s\n", rec.Name, rec.Version, rec.Architecture, rec.Filename)
	}
	return nil
}
