package main

import (
	"github.com/spf13/cobra"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
)

func splitCmd(a *app) *cobra.Command {
	var (
		input, train, test, target string
		fraction                   float64
		seed                       int64
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Drop identifier columns and shuffle a labeled dataset into train and test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.SplitDatasetRequest{
				InputPath:    input,
				TrainPath:    train,
				TestPath:     test,
				TargetColumn: target,
				TestFraction: fraction,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			resp, err := usecase.NewSplitDataset(a.store, a.store, a.logger).Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "labeled CSV to split")
	cmd.Flags().StringVar(&train, "train", "", "train partition CSV to write")
	cmd.Flags().StringVar(&test, "test", "", "test partition CSV to write")
	cmd.Flags().StringVar(&target, "target", "", "label column that must be present (default is_high_risk)")
	cmd.Flags().Float64Var(&fraction, "test-fraction", 0.2, "share of rows held out for testing")
	cmd.Flags().Int64Var(&seed, "seed", 42, "shuffle seed")
	for _, name := range []string{"input", "train", "test"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
