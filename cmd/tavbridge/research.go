package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

func newResearchCmd() *cobra.Command {
	var (
		configPath     string
		model          string
		outputFormat   string
		citationFormat string
		timeout        int
	)

	cmd := &cobra.Command{
		Use:   "research <input>",
		Short: "Run a deep research task and wait for the report",
		Long: `Run a deep research task and wait for the report.

Research runs asynchronously on the provider side; this command polls
until the report is ready or the timeout budget is spent.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := requireClient(configPath)
			if err != nil {
				return err
			}

			spec := tavily.ResearchSpec{
				Input:          args[0],
				Model:          model,
				OutputFormat:   outputFormat,
				CitationFormat: citationFormat,
			}
			if cmd.Flags().Changed("timeout") {
				spec.TimeoutSeconds = &timeout
			}

			fmt.Fprintln(os.Stderr, "researching...")
			res, err := client.Research(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&model, "model", "", "research model: fast or comprehensive")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "report format: markdown or json")
	cmd.Flags().StringVar(&citationFormat, "citation-format", "", "citation style: numbered or inline")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "wait budget in seconds (10-150)")
	return cmd
}
