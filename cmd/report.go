/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/csv"
	"os"

	"icreport/internal/graphstore"
	"icreport/internal/logic/report"
	"icreport/internal/mode"
	"icreport/internal/output"
	"icreport/internal/reportcache"
	"icreport/internal/rollup"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var reportOpts struct {
	from       int
	to         int
	department string
	kinds      []string
	csvPath    string
	items      bool
	dump       bool
}

// reportCmd computes one report variant and prints it
var reportCmd = &cobra.Command{
	Use:       "report <variant>",
	Short:     "Compute a department report",
	Long:      `Compute a department report. Run "icreport variants" for the list of variants.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: rollup.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := reportRequest(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		g, err := loadGraph(ctx)
		if err != nil {
			return err
		}
		cache, err := reportcache.New(cfg.Cache.Size, report.Engine{Workers: cfg.Engine.Workers})
		if err != nil {
			return err
		}
		r, err := cache.Report(g, req)
		if err != nil {
			return err
		}

		if err := output.Report(cmd.OutOrStdout(), r, reportOpts.items); err != nil {
			return err
		}
		if reportOpts.csvPath != "" {
			if err := writeCSV(reportOpts.csvPath, r); err != nil {
				return err
			}
			log.Infoln("report written to", reportOpts.csvPath)
		}
		if reportOpts.dump {
			store, err := graphstore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			return store.DumpReport(ctx, r)
		}
		return nil
	},
}

func reportRequest(variant string) (report.Request, error) {
	v, ok := rollup.Lookup(variant)
	if !ok {
		return report.Request{}, errors.Errorf("unknown variant %q", variant)
	}
	req := report.Request{
		Variant:      v.Name,
		StartYear:    cfg.Report.StartYear,
		EndYear:      cfg.Report.EndYear,
		DepartmentID: reportOpts.department,
	}
	if reportOpts.from != 0 {
		req.StartYear = reportOpts.from
	}
	if reportOpts.to != 0 {
		req.EndYear = reportOpts.to
	}
	if !req.Window().Valid() {
		return report.Request{}, errors.Errorf("window %d-%d is inverted", req.StartYear, req.EndYear)
	}
	for _, k := range reportOpts.kinds {
		switch kind := mode.OutputKind(k); kind {
		case mode.KindPublication, mode.KindConference, mode.KindBook:
			req.Kinds = append(req.Kinds, kind)
		default:
			return report.Request{}, errors.Errorf("unknown output kind %q", k)
		}
	}
	req.Kinds = mode.UniqueKinds(req.Kinds)
	return req, nil
}

// writeCSV writes the report rows, then the per-output listing after a blank
// line when the variant keeps one.
func writeCSV(path string, r *rollup.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "csv")
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(r.Table()); err != nil {
		return errors.Wrap(err, "csv")
	}
	if r.Variant.Detail {
		if err := w.Write(nil); err != nil {
			return errors.Wrap(err, "csv")
		}
		if err := w.WriteAll(r.ItemTable()); err != nil {
			return errors.Wrap(err, "csv")
		}
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportOpts.from, "from", 0, "first year of the window (default report.start_year)")
	reportCmd.Flags().IntVar(&reportOpts.to, "to", 0, "last year of the window (default report.end_year)")
	reportCmd.Flags().StringVarP(&reportOpts.department, "department", "d", "", "only outputs touching this department")
	reportCmd.Flags().StringSliceVar(&reportOpts.kinds, "kinds", nil, "output kinds to read: publication, conference, book")
	reportCmd.Flags().StringVar(&reportOpts.csvPath, "csv", "", "also write the report to this CSV file")
	reportCmd.Flags().BoolVar(&reportOpts.items, "items", false, "print the per-output listing of detail variants")
	reportCmd.Flags().BoolVar(&reportOpts.dump, "dump", false, "upsert the report rows into mongo")
}
