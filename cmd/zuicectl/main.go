// Package main is the entry point for zuicectl, an offline tool for
// checking the storefront catalog and assistant without a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zuicectl",
		Short: "zuicectl - inspect the storefront catalog and assistant",
		Long: `zuicectl runs the storefront's product filtering and FAQ matching
locally against the built-in catalog and knowledge base. Use it to check
how a query will be answered before it reaches a visitor.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("zuicectl version {{.Version}}\n")

	root.AddCommand(newAskCmd(), newProductsCmd())
	return root
}
