package main

import (
	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

func newSearchCmd() *cobra.Command {
	var (
		configPath     string
		depth          string
		topic          string
		timeRange      string
		days           int
		maxResults     int
		chunks         int
		includeAnswer  string
		includeRaw     string
		includeImages  bool
		includeDomains []string
		excludeDomains []string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a web search",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := requireClient(configPath)
			if err != nil {
				return err
			}

			spec := tavily.SearchSpec{
				Query:          args[0],
				SearchDepth:    depth,
				Topic:          topic,
				TimeRange:      timeRange,
				Days:           days,
				IncludeImages:  includeImages,
				IncludeDomains: includeDomains,
				ExcludeDomains: excludeDomains,
			}
			if cmd.Flags().Changed("max-results") {
				spec.MaxResults = &maxResults
			}
			if cmd.Flags().Changed("chunks-per-source") {
				spec.ChunksPerSource = &chunks
			}
			if includeAnswer != "" {
				spec.IncludeAnswer = includeAnswer
			}
			if includeRaw != "" {
				spec.IncludeRawContent = includeRaw
			}

			res, err := client.Search(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return printResult(res)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&depth, "depth", "", "search depth: basic or advanced")
	cmd.Flags().StringVar(&topic, "topic", "", "topic: general, news, or finance")
	cmd.Flags().StringVar(&timeRange, "time-range", "", "restrict results: day, week, month, or year")
	cmd.Flags().IntVar(&days, "days", 0, "days back for news topic searches")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "number of results (1-20)")
	cmd.Flags().IntVar(&chunks, "chunks-per-source", 0, "content chunks per source (1-3)")
	cmd.Flags().StringVar(&includeAnswer, "include-answer", "", "include an answer: true, basic, or advanced")
	cmd.Flags().StringVar(&includeRaw, "include-raw-content", "", "include raw page content: true, basic, or advanced")
	cmd.Flags().BoolVar(&includeImages, "include-images", false, "include image results")
	cmd.Flags().StringSliceVar(&includeDomains, "include-domains", nil, "only include these domains")
	cmd.Flags().StringSliceVar(&excludeDomains, "exclude-domains", nil, "exclude these domains")
	return cmd
}
