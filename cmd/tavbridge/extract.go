package main

import (
	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

func newExtractCmd() *cobra.Command {
	var (
		configPath    string
		extractDepth  string
		format        string
		includeImages bool
	)

	cmd := &cobra.Command{
		Use:   "extract <url> [url...]",
		Short: "Extract page content from one or more URLs",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := requireClient(configPath)
			if err != nil {
				return err
			}

			res, err := client.Extract(cmd.Context(), tavily.ExtractSpec{
				URLs:          args,
				ExtractDepth:  extractDepth,
				Format:        format,
				IncludeImages: includeImages,
			})
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&extractDepth, "extract-depth", "", "extraction depth: basic or advanced")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown or text")
	cmd.Flags().BoolVar(&includeImages, "include-images", false, "include images found on the pages")
	return cmd
}
