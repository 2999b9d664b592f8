package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/zuice-storefront/internal/faq"
)

type askOptions struct {
	strategy  string
	threshold float64
	json      bool
}

func newAskCmd() *cobra.Command {
	opts := askOptions{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question with the storefront assistant",
		Long: `Answer a question the way the storefront chat would.

The fuzzy strategy looks up canned answers by approximate question text;
--threshold sets how far a question may differ from a known one. The
keyword strategy classifies the question into a knowledge-base topic.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", faq.StrategyFuzzy,
		"answer strategy ("+strings.Join(faq.Strategies(), ", ")+")")
	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", faq.DefaultThreshold,
		"fuzzy match threshold between 0 and 1")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the reply as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, opts askOptions, question string) error {
	m, err := faq.New(opts.strategy, opts.threshold)
	if err != nil {
		return err
	}

	reply := m.Match(question)
	out := cmd.OutOrStdout()

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reply)
	}

	fmt.Fprintln(out, reply.Text)
	for _, s := range reply.Suggestions {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	if reply.Matched {
		fmt.Fprintf(out, "\n(%s match: %s)\n", m.Strategy(), reply.Source)
	} else {
		fmt.Fprintf(out, "\n(%s: no match)\n", m.Strategy())
	}
	return nil
}
