package main

import (
	"github.com/spf13/cobra"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
)

func featuresCmd(a *app) *cobra.Command {
	var input, output, valueColumn string

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Add per-customer aggregates and transaction time features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := usecase.NewBuildFeatures(a.store, a.store, a.cfg.LabelingDefaults(), a.logger).Execute(cmd.Context(), dto.BuildFeaturesRequest{
				InputPath:   input,
				OutputPath:  output,
				ValueColumn: valueColumn,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transactions CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "", "feature CSV to write")
	cmd.Flags().StringVar(&valueColumn, "value-column", "", "column aggregated per customer")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
