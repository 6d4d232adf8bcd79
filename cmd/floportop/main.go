// Command floportop runs the movie rating prediction and similarity search
// service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "floportop",
		Short:         "Movie rating prediction and similarity search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", "", "path to a .env file (default ./.env)")

	root.AddCommand(serveCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
