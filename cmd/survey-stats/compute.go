package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-survey-stats/internal/model"
	"go-survey-stats/internal/pipeline"
)

type computeOptions struct {
	Operation string
	Question  string
	State     string
	Out       string
}

func newComputeCommand(stdout io.Writer) *cobra.Command {
	var opts computeOptions
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Run one aggregation synchronously",
		Long: `
Loads the dataset, runs a single aggregation and prints the result as JSON.
With --out the result is exported to a .json or .csv file instead.
`,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.Flags(), map[string]string{"dataset.path": "dataset"})
			if err != nil {
				return err
			}
			return runCompute(cfg.Dataset.Path, opts, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Operation, "op", "", "operation, e.g. states_mean or best5")
	flags.StringVar(&opts.Question, "question", "", "survey question")
	flags.StringVar(&opts.State, "state", "", "state, for state_* operations")
	flags.StringVarP(&opts.Out, "out", "o", "", "export to this .json or .csv file")
	_ = cmd.MarkFlagRequired("op")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func runCompute(datasetPath string, opts computeOptions, stdout io.Writer) error {
	op, err := model.ParseOperation(opts.Operation)
	if err != nil {
		return err
	}
	payload := model.Payload{Question: opts.Question, State: opts.State}
	if err := pipeline.ValidatePayload(op, payload); err != nil {
		return err
	}

	data, err := pipeline.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	result, err := pipeline.NewEngine(data).Run(op, payload)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(b))
		return err
	}

	em := &pipeline.ExportManager{Operation: op, Payload: payload}
	exported, err := em.Export(result, opts.Out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "exported %d rows to %s (%s)\n", exported.RecordCount, exported.Path, exported.Type)
	return err
}
