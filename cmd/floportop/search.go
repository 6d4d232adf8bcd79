package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floportop/floportop"
	"github.com/floportop/floportop/internal/config"
	"github.com/floportop/floportop/internal/log"
)

func searchCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find movies similar to a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.LoadConfig(envFile)
			if err != nil {
				return err
			}
			logger := log.Configure(cfg)

			client, err := floportop.New(cmd.Context(), floportop.WithConfig(cfg), floportop.WithLogger(logger))
			if err != nil {
				return err
			}
			defer client.Close()

			if k <= 0 {
				k = cfg.SearchLimit()
			}

			query := strings.Join(args, " ")
			results, err := client.Similarity().Similar(cmd.Context(), query, k)
			if err != nil {
				return err
			}

			for i, res := range results {
				record := res.Record
				fmt.Printf("%2d. %s (%d)  score=%.4f  rating=%.1f\n",
					i+1, record.Title(), record.Year(), res.Score, record.VoteAverage())
				if genres := record.Genres(); len(genres) > 0 {
					fmt.Printf("    %s\n", strings.Join(genres, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "number of results (default from config)")
	return cmd
}
