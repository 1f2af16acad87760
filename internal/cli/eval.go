package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"assessrec/internal/usecase"
)

var (
	evalLabels  string
	evalK       int
	evalJSON    bool
	evalVerbose bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Measure ranking quality against labelled queries",
	Long: `Run every query of a labels CSV (columns Query, Assessment_url) and report
Recall@K, Precision@K, MRR, nDCG and hit rate. Assessments are matched on the
last segment of their URL.

Examples:
  assessrec eval --labels data/train.csv
  assessrec eval --labels data/train.csv -k 5 --verbose`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalLabels, "labels", "", "labels CSV (required)")
	evalCmd.Flags().IntVarP(&evalK, "top-k", "k", 10, "cutoff rank")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")
	evalCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "print per-query results")
	_ = evalCmd.MarkFlagRequired("labels")
}

func runEval(cmd *cobra.Command, args []string) error {
	f, err := os.Open(evalLabels)
	if err != nil {
		return fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	labels, err := usecase.ReadLabels(f)
	if err != nil {
		return err
	}

	svc, err := newService(cmd.Context(), GetConfig(), GetRootDir(), serviceOptions{})
	if err != nil {
		return err
	}
	if _, err := svc.Load(cmd.Context()); err != nil {
		return err
	}

	report, err := usecase.Evaluate(cmd.Context(), svc, labels, evalK)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if evalVerbose {
		for _, q := range report.Queries {
			fmt.Printf("%-60.60s recall=%.3f rr=%.3f\n", q.Query, q.Recall, q.RR)
		}
		fmt.Println()
	}
	fmt.Printf("Evaluated %d queries at K=%d\n", len(report.Queries), report.K)
	fmt.Printf("  Mean Recall@%d:    %.4f\n", report.K, report.MeanRecall)
	fmt.Printf("  Mean Precision@%d: %.4f\n", report.K, report.MeanPrecision)
	fmt.Printf("  MRR:               %.4f\n", report.MRR)
	fmt.Printf("  Mean nDCG@%d:      %.4f\n", report.K, report.MeanNDCG)
	fmt.Printf("  Hit rate:          %.4f\n", report.HitRate)
	return nil
}
