package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floportop/floportop"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println(floportop.Version)
		},
	}
}
