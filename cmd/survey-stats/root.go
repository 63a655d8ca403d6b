package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go-survey-stats/internal/config"
)

func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "survey-stats",
		Short: "Aggregation service for the US nutrition, physical activity and obesity survey.",
		Long: `survey-stats loads the survey CSV once and answers aggregation queries
(per-state means, rankings, category breakdowns) as asynchronous jobs over HTTP.

The compute subcommand runs a single aggregation offline.
`,
		SilenceUsage: true,
	}
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")
	rc.PersistentFlags().String("dataset", "", "path to the survey CSV (dataset.path)")

	rc.AddCommand(newServeCommand(stdout))
	rc.AddCommand(newComputeCommand(stdout))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// loadConfig layers flags over env, config file and defaults. bindings maps
// a config key to the flag that overrides it.
func loadConfig(flags *pflag.FlagSet, bindings map[string]string) (*config.Config, error) {
	configFile, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags, bindings); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
