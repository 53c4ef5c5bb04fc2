package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tavbridge-ai/tavbridge/pkg/config"
	"github.com/tavbridge-ai/tavbridge/pkg/tracker"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		recent     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show tool invocation statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Usage.DBPath == "" {
				fmt.Println("Usage tracking is in-memory only; set usage.db_path to persist statistics.")
				return nil
			}

			tr, err := tracker.New(cfg.Usage.DBPath)
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx := cmd.Context()

			// Recent invocation view
			if recent > 0 {
				invs, err := tr.Recent(ctx, recent)
				if err != nil {
					return err
				}
				if len(invs) == 0 {
					fmt.Println("No invocations recorded.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tOPERATION\tDURATION MS\tCACHE HIT\tERROR")
				for _, inv := range invs {
					errCode := "-"
					if inv.ErrorCode != "" {
						errCode = inv.ErrorCode
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\n",
						inv.CreatedAt.Format("2006-01-02T15:04:05"), inv.Operation, inv.DurationMs, inv.CacheHit, errCode)
				}
				return w.Flush()
			}

			// Default: per-operation summary
			summaries, err := tr.Summary(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No usage data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tCALLS\tERRORS\tCACHE HITS\tAVG MS")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
					s.Operation, s.Count, s.Errors, s.CacheHits, s.AvgDurationMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&recent, "recent", 0, "show the N most recent invocations instead of the summary")
	return cmd
}
