package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"reviewhub/internal/domain/evaluation"
)

func render[T any](w io.Writer, format string, value T, table func(io.Writer, T) error) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		// Round trip through JSON so the yaml output uses the json field names.
		payload, err := json.Marshal(value)
		if err != nil {
			return err
		}
		var generic any
		if err := yaml.Unmarshal(payload, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return table(w, value)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printPlanTable(w io.Writer, result evaluation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "STRATEGY\t%s\n", result.Plan.Strategy)
	fmt.Fprintf(tw, "FINGERPRINT\t%s\n", result.Plan.Fingerprint)
	fmt.Fprintf(tw, "STATE\t%s\n\n", result.State)
	fmt.Fprintln(tw, "EVALUATEE\tSELF\tMANAGERS\tPEERS\tSUBORDINATES\tOUTGOING")
	for _, a := range result.Plan.Assignments {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\t%d\n",
			a.EvaluateeID, a.Self, list(a.Managers), list(a.Peers), list(a.Subordinates), a.Outgoing.Total())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := printWorkloadTable(w, result.Workload); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return printReportTable(w, result.Report)
}

func printWorkloadTable(w io.Writer, workload []evaluation.WorkloadEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVALUATOR\tBOSS\tPEER\tTEAM\tTOTAL\tLOAD")
	for _, e := range workload {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", e.EvaluatorID, e.Boss, e.Peer, e.Team, e.Total, e.Load)
	}
	return tw.Flush()
}

func printReportTable(w io.Writer, report evaluation.Report) error {
	if len(report.Findings) == 0 {
		_, err := fmt.Fprintln(w, "No findings.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVALUATEE\tSEVERITY\tREASON")
	for _, f := range report.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.EvaluateeID, f.Severity, f.Reason)
	}
	return tw.Flush()
}

func list(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}
