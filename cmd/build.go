package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var (
	buildNoStore bool
	buildQuiet   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the master dataset from the session folders and store it",
	Long: `Scan every folder under the data root, aggregate its shots and points tables,
and print the resulting per-player session rows. The SQLite snapshot is replaced
in full unless --no-store is given.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildNoStore, "no-store", false, "do not write the SQLite snapshot")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "only print the session reports")
}

func runBuild(cmd *cobra.Command, args []string) error {
	res, err := buildDataset()
	if err != nil {
		return err
	}

	report.PrintBuildSummary(os.Stdout, res.Root, res.Used(), res.Skipped(), res.Dataset.Len(), res.Duration)
	if len(res.Reports) > 0 {
		report.PrintSessionReports(os.Stdout, res.Reports)
	}
	if res.Dataset.Len() == 0 {
		fmt.Fprintln(os.Stdout, "\nWarning: no valid session data loaded. Check your CSV files and folder structure.")
	} else if !buildQuiet {
		fmt.Fprintln(os.Stdout)
		report.PrintDatasetTable(os.Stdout, res.Dataset.Rows, cfg.Host)
	}

	if buildNoStore {
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.ReplaceSnapshot(storage.NewSnapshot(res, cfg.Host))
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	log.WithField("run", runID).WithField("db", cfg.DBPath).Info("snapshot stored")
	fmt.Fprintf(os.Stdout, "\nStored run %s in %s\n", runID[:8], cfg.DBPath)
	return nil
}
