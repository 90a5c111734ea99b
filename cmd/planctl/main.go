// planctl runs the evaluator assignment engine over a snapshot file, without
// a database or server.
//
// Usage:
//
//	planctl resolve -f snapshot.yaml
//	planctl validate -f snapshot.json -o json
//	planctl workload -f snapshot.yaml --threshold 10
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version      = "dev"
	snapshotFile string
	outputFmt    string
	threshold    int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planctl",
		Short:         "Resolve evaluator assignments from a snapshot file",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&snapshotFile, "filename", "f", "", "Snapshot file, YAML or JSON (required)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().IntVar(&threshold, "threshold", 0, "Override the snapshot's workload threshold")
	_ = rootCmd.MarkPersistentFlagRequired("filename")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(workloadCmd())
	return rootCmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the full assignment plan with counts, workload and findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadAndResolve(snapshotFile, threshold)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFmt, result, printPlanTable)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Print launch findings; exits non-zero when the launch would be blocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadAndResolve(snapshotFile, threshold)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), outputFmt, result.Report, printReportTable); err != nil {
				return err
			}
			if result.Report.Blocked {
				return fmt.Errorf("launch blocked: %d blocking finding(s)", len(result.Report.Blocks()))
			}
			return nil
		},
	}
}

func workloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workload",
		Short: "Print how many evaluations each evaluator must complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadAndResolve(snapshotFile, threshold)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), outputFmt, result.Workload, printWorkloadTable)
		},
	}
}
