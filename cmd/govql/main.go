// Command govql serves a governance GraphQL API as MCP tools and
// resources over stdio or HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "govql",
		Short:   "govql — governance API adapter for MCP agents",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newQueryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
