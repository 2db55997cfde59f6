/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"

	"icreport/internal/config"
	"icreport/internal/graphstore"
	"icreport/internal/loadfile"
	"icreport/internal/mode"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	source  string
	input   string
	cfg     *config.Config
)

const (
	sourceFile  = "file"
	sourceMongo = "mongo"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "icreport",
	Short: "Department attribution and classification reports for research outputs",
	Long: `icreport credits publications, conference presentations and books to
departments through the projects that produced them, classifies them by
national and international indexing standards, and prints one row per
department plus a Total row.

Example usage:
  icreport variants
  icreport report standards_single --from 2019 --to 2024
  icreport report publication_detail --department D01 --items
  icreport report membership --source mongo --dump
  icreport check --input snapshot/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .icreport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&source, "source", sourceFile, "graph source: file or mongo")
	rootCmd.PersistentFlags().StringVarP(&input, "input", "i", "", "snapshot file or directory (default snapshot.path)")
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	cfg.ConfigureLogging(verbose)
	log.WithFields(log.Fields{
		"workers": cfg.Engine.Workers,
		"cache":   cfg.Cache.Size,
		"window":  []int{cfg.Report.StartYear, cfg.Report.EndYear},
	}).Debug("configuration loaded")
	return nil
}

func loadGraph(ctx context.Context) (*mode.Graph, error) {
	switch source {
	case sourceFile:
		path := input
		if path == "" {
			path = cfg.Snapshot.Path
		}
		return loadfile.Load(path)
	case sourceMongo:
		store, err := graphstore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		defer store.Close(ctx)
		return store.LoadGraph(ctx)
	default:
		return nil, errors.Errorf("unknown source %q, want file or mongo", source)
	}
}
