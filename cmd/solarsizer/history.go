package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"SolarSizer/internal/report"
)

func newHistoryCmd() *cobra.Command {
	var (
		projectID string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec := openRecorder(cfg)
			defer rec.Close()

			runs, err := rec.ListRuns(projectID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatHistory(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only runs of this project")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}
