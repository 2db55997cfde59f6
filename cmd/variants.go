/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"strconv"
	"strings"

	"icreport/internal/output"
	"icreport/internal/rollup"

	"github.com/spf13/cobra"
)

// variantsCmd lists the report variants and their default output kinds
var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List report variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := output.NewTable(cmd.OutOrStdout(), []string{"Name", "Title", "Kinds", "Columns"})
		for _, v := range rollup.Variants() {
			kinds := make([]string, len(v.Kinds))
			for i, k := range v.Kinds {
				kinds[i] = string(k)
			}
			t.AddRows([][]string{{v.Name, v.Title, strings.Join(kinds, ","), strconv.Itoa(len(v.Columns))}})
		}
		return t.Render()
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}
