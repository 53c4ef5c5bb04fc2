package main

import (
	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

func newCrawlCmd() *cobra.Command {
	var (
		configPath    string
		maxDepth      int
		maxBreadth    int
		limit         int
		instructions  string
		selectPaths   []string
		selectDomains []string
		allowExternal bool
		extractDepth  string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site from a root URL",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := requireClient(configPath)
			if err != nil {
				return err
			}

			spec := tavily.CrawlSpec{
				URL:           args[0],
				Instructions:  instructions,
				SelectPaths:   selectPaths,
				SelectDomains: selectDomains,
				AllowExternal: allowExternal,
				ExtractDepth:  extractDepth,
				Format:        format,
			}
			if cmd.Flags().Changed("max-depth") {
				spec.MaxDepth = &maxDepth
			}
			if cmd.Flags().Changed("max-breadth") {
				spec.MaxBreadth = &maxBreadth
			}
			if cmd.Flags().Changed("limit") {
				spec.Limit = &limit
			}

			res, err := client.Crawl(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "link hops from the root URL (1-5)")
	cmd.Flags().IntVar(&maxBreadth, "max-breadth", 0, "links followed per page (1-500)")
	cmd.Flags().IntVar(&limit, "limit", 0, "total pages to process (1-500)")
	cmd.Flags().StringVar(&instructions, "instructions", "", "natural-language crawl guidance")
	cmd.Flags().StringSliceVar(&selectPaths, "select-paths", nil, "regex patterns for URL paths to include")
	cmd.Flags().StringSliceVar(&selectDomains, "select-domains", nil, "regex patterns for domains to include")
	cmd.Flags().BoolVar(&allowExternal, "allow-external", false, "follow links to external domains")
	cmd.Flags().StringVar(&extractDepth, "extract-depth", "", "extraction depth: basic or advanced")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown or text")
	return cmd
}
