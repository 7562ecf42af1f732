package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
	"github.com/bobdeve/credit-risk-model/internal/domain/service"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/messaging"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/persistence/memory"
)

func labelCmd(a *app) *cobra.Command {
	var (
		input, output, snapshot, valueColumn string
		offset                               time.Duration
		clusters                             int
		seed                                 int64
	)

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Cluster customers on RFM and write transactions with an is_high_risk column",
		Long: `Cluster customers on standardized recency, frequency and monetary value,
flag the least engaged cluster as high risk and merge the label onto every
transaction row.

Examples:
  risklabel label --input data/raw/data.csv --output data/processed/processed_data.csv
  risklabel label --input data.csv --output out.csv --snapshot 2019-02-14 --clusters 4 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := parseSnapshot(snapshot)
			if err != nil {
				return err
			}

			req := dto.BuildProxyTargetRequest{
				Snapshot:    snap,
				InputPath:   input,
				OutputPath:  output,
				ValueColumn: valueColumn,
				Clusters:    clusters,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("snapshot-offset") {
				req.SnapshotOffset = &offset
			}

			uc := usecase.NewBuildProxyTarget(a.store, a.store, memory.NewSegmentationRunRepository(),
				messaging.NewLogPublisher(a.logger), service.NewRiskSegmenter(), a.cfg.LabelingDefaults(), a.logger)
			resp, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transactions CSV to label")
	cmd.Flags().StringVarP(&output, "output", "o", "", "labeled CSV to write")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "recency reference time (RFC 3339 or YYYY-MM-DD); default latest transaction plus offset")
	cmd.Flags().DurationVar(&offset, "snapshot-offset", 24*time.Hour, "offset after the latest transaction when no snapshot is given")
	cmd.Flags().StringVar(&valueColumn, "value-column", "", "column summed for monetary value (default from VALUE_COLUMN)")
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 0, "number of clusters (default from RISK_CLUSTERS)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "clustering seed (default from RISK_SEED)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
