package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrypster/strata/internal/intake"
	"github.com/scrypster/strata/pkg/validation"
)

// errRejected makes the process exit non-zero after the report was printed.
var errRejected = errors.New("one or more records were rejected")

type validateFlags struct {
	shape      string
	format     string
	strict     bool
	collectAll bool
	tagged     bool
	workers    int
	jsonOut    bool
}

func newValidateCmd(a *app) *cobra.Command {
	var flags validateFlags

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate records and report rejections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, a, &flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.shape, "shape", string(intake.ShapeEntity), "Record shape: "+shapeNames())
	f.StringVar(&flags.format, "format", "auto", "Input format: auto, json, yaml")
	f.BoolVar(&flags.strict, "strict", false, "Check pathDepth against path and hasChildren against childrenCount")
	f.BoolVar(&flags.collectAll, "collect-all", false, "Report every violation of a record, not just the first")
	f.BoolVar(&flags.tagged, "tagged", true, "Dispatch entities on their type tag")
	f.IntVar(&flags.workers, "workers", 0, "Concurrent validations (default from config)")
	f.BoolVar(&flags.jsonOut, "json", false, "Print the reports as JSON")
	return cmd
}

func shapeNames() string {
	names := make([]string, len(intake.Shapes))
	for i, s := range intake.Shapes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func runValidate(cmd *cobra.Command, a *app, flags *validateFlags, args []string) error {
	format, err := intake.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if cmd.Flags().Changed("strict") {
		cfg.Validation.Strict = flags.strict
	}
	if cmd.Flags().Changed("collect-all") {
		cfg.Validation.CollectAll = flags.collectAll
	}
	if cmd.Flags().Changed("tagged") {
		cfg.Validation.Tagged = flags.tagged
	}
	if flags.workers > 0 {
		cfg.Intake.Workers = flags.workers
	}

	opts := intake.OptionsFromConfig(cfg, intake.Shape(flags.shape))
	proc, err := intake.NewProcessor(validation.New(cfg.ValidationOptions()), opts, a.logger)
	if err != nil {
		return err
	}

	batches, err := readBatches(cmd.InOrStdin(), args, format)
	if err != nil {
		return err
	}

	reports := make([]*intake.Report, 0, len(batches))
	ok := true
	for _, b := range batches {
		report, err := proc.Process(cmd.Context(), b.source, b.records)
		if err != nil {
			return err
		}
		reports = append(reports, report)
		ok = ok && report.OK()
	}

	out := cmd.OutOrStdout()
	if flags.jsonOut {
		if err := writeJSONReports(out, reports); err != nil {
			return err
		}
	} else {
		writeTextReports(out, reports)
	}

	if !ok {
		return errRejected
	}
	return nil
}

func writeTextReports(out io.Writer, reports []*intake.Report) {
	for _, r := range reports {
		for _, rej := range r.Rejected {
			for _, fe := range rej.Errors {
				fmt.Fprintf(out, "%s#%d %s\n", r.Source, rej.Index, fe.Error())
			}
		}
		if len(r.Skipped) > 0 {
			fmt.Fprintf(out, "%s: skipped records %v after repeated rejections\n", r.Source, r.Skipped)
		}
		fmt.Fprintf(out, "%s: %d records, %d accepted, %d rejected, %d skipped\n",
			r.Source, r.Total, len(r.Accepted), len(r.Rejected), len(r.Skipped))
	}
}

type jsonRejection struct {
	Index  int                      `json:"index"`
	Errors []*validation.FieldError `json:"errors"`
}

type jsonReport struct {
	BatchID  string          `json:"batchId"`
	Source   string          `json:"source"`
	Shape    string          `json:"shape"`
	Total    int             `json:"total"`
	Accepted []interface{}   `json:"accepted"`
	Rejected []jsonRejection `json:"rejected"`
	Skipped  []int           `json:"skipped"`
}

func writeJSONReports(out io.Writer, reports []*intake.Report) error {
	docs := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		doc := jsonReport{
			BatchID:  r.BatchID,
			Source:   r.Source,
			Shape:    string(r.Shape),
			Total:    r.Total,
			Accepted: []interface{}{},
			Rejected: []jsonRejection{},
			Skipped:  []int{},
		}
		for _, acc := range r.Accepted {
			doc.Accepted = append(doc.Accepted, acc.Value)
		}
		for _, rej := range r.Rejected {
			doc.Rejected = append(doc.Rejected, jsonRejection{Index: rej.Index, Errors: rej.Errors})
		}
		doc.Skipped = append(doc.Skipped, r.Skipped...)
		docs = append(docs, doc)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
