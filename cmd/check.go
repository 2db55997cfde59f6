/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"icreport/internal/loadfile"

	"github.com/spf13/cobra"
)

var checkLimit int

// checkCmd reports dangling references in the graph. It never fails on them;
// they only shrink report totals.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a graph snapshot for dangling and malformed references",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGraph(cmd.Context())
		if err != nil {
			return err
		}
		issues := loadfile.Check(g)
		w := cmd.OutOrStdout()
		for i, issue := range issues {
			if checkLimit > 0 && i >= checkLimit {
				fmt.Fprintf(w, "... %d more\n", len(issues)-checkLimit)
				break
			}
			fmt.Fprintln(w, issue)
		}
		fmt.Fprintf(w, "%d issues\n", len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&checkLimit, "limit", 50, "print at most this many issues, 0 for all")
}
