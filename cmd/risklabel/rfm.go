package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
)

func rfmCmd(a *app) *cobra.Command {
	var (
		input, output, snapshot, valueColumn string
		offset                               time.Duration
	)

	cmd := &cobra.Command{
		Use:   "rfm",
		Short: "Write one recency, frequency and monetary row per customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := parseSnapshot(snapshot)
			if err != nil {
				return err
			}

			req := dto.ExportRFMRequest{
				Snapshot:    snap,
				InputPath:   input,
				OutputPath:  output,
				ValueColumn: valueColumn,
			}
			if cmd.Flags().Changed("snapshot-offset") {
				req.SnapshotOffset = &offset
			}

			resp, err := usecase.NewExportRFM(a.store, a.store, a.cfg.LabelingDefaults(), a.logger).Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transactions CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "", "RFM CSV to write")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "recency reference time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().DurationVar(&offset, "snapshot-offset", 24*time.Hour, "offset after the latest transaction when no snapshot is given")
	cmd.Flags().StringVar(&valueColumn, "value-column", "", "column summed for monetary value")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
