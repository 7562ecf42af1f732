package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobdeve/credit-risk-model/internal/infrastructure/config"
	"github.com/bobdeve/credit-risk-model/internal/infrastructure/csvio"
	"github.com/bobdeve/credit-risk-model/pkg/observability"
)

var Version = "dev"

// app carries what every sub-command needs once the root command has run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *csvio.TableStore
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	a := &app{}
	var (
		envFile  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:           "risklabel",
		Short:         "Build proxy credit-risk labels and model datasets from transaction exports",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.logger = observability.InitLogger(observability.LogConfig{
				Output: logOutput,
				Level:  cfg.LogLevel,
				Format: "text",
			})
			a.store = csvio.NewOSTableStore()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with configuration defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(labelCmd(a))
	rootCmd.AddCommand(rfmCmd(a))
	rootCmd.AddCommand(featuresCmd(a))
	rootCmd.AddCommand(splitCmd(a))

	return rootCmd
}

// parseSnapshot accepts RFC 3339 timestamps or plain dates. An empty value
// yields the zero time, meaning the snapshot is derived from the data.
func parseSnapshot(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snapshot %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
