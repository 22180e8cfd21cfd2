package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pathbridge/internal/locator"
	"pathbridge/internal/table"
)

var (
	locateTable  string
	locateColumn string
	locateDir    string
	locatePrefix string
	locateExts   []string
	locateCreate bool
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Fill a CSV table column with discovered file paths",
	Long: `Loads the CSV table, and for each row looks in the search directory for a
file named <prefix><test_idx>. Matches record their absolute path into the
target column; rows without a match keep their current value. The updated
table is written back in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tablePath := cfg.Locate.TablePath
		if locateTable != "" {
			tablePath = locateTable
		}
		targetColumn := cfg.Locate.TargetColumn
		if locateColumn != "" {
			targetColumn = locateColumn
		}
		searchDir := cfg.Locate.SearchDir
		if locateDir != "" {
			searchDir = locateDir
		}
		prefix := cfg.Locate.NamePrefix
		if cmd.Flags().Changed("prefix") {
			prefix = locatePrefix
		}
		opts := cfg.Locate.Options()
		if cmd.Flags().Changed("ext") {
			opts.Extensions = locateExts
		}
		if cmd.Flags().Changed("create-column") {
			opts.CreateColumn = locateCreate
		}
		if tablePath == "" || searchDir == "" {
			return fmt.Errorf("locate needs a table path and a search directory (flags or config)")
		}

		t, err := table.LoadCSV(tablePath)
		if err != nil {
			return err
		}
		t, updated, err := locator.New().LocateAdvanced(t, targetColumn, searchDir, prefix, opts)
		if err != nil {
			return err
		}
		if err := t.SaveCSV(tablePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows updated in %s\n", updated, t.NumRows(), tablePath)
		return nil
	},
}

func init() {
	locateCmd.Flags().StringVarP(&locateTable, "table", "t", "", "CSV table path")
	locateCmd.Flags().StringVar(&locateColumn, "column", "", "target column for file paths")
	locateCmd.Flags().StringVarP(&locateDir, "dir", "d", "", "directory to search")
	locateCmd.Flags().StringVarP(&locatePrefix, "prefix", "p", "", "file name prefix before the identifier")
	locateCmd.Flags().StringSliceVar(&locateExts, "ext", nil, "allowed extensions in priority order (e.g. .json,.csv)")
	locateCmd.Flags().BoolVar(&locateCreate, "create-column", true, "create the target column when missing")
}
