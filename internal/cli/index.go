package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"assessrec/internal/adapter/store"
)

var (
	indexStatus  bool
	indexRebuild bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build catalogue vectors and warm the vector cache",
	Long: `Load the catalogue, vectorize every assessment and store the vectors in
.assessrec/vectors.db. Later runs reuse the cache while the catalogue and
model are unchanged.

Examples:
  assessrec index             # Build or reuse the cache
  assessrec index --rebuild   # Drop the cache first
  assessrec index --status    # Show what the cache holds`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexStatus, "status", false, "show cache status and exit")
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "delete the vector cache before building")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()
	dbPath := cfg.CacheDBPath(root)

	if indexStatus {
		return printCacheStatus(dbPath)
	}

	if indexRebuild {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Vectorizing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		_ = bar.Set(done)
		if done > 0 && done < total {
			rate := float64(done) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Vectorizing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	svc, err := newService(cmd.Context(), cfg, root, serviceOptions{progress: progress})
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := svc.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Catalogue files: %d\n", len(svc.Files()))
	fmt.Printf("  Assessments:     %d\n", stats.Entries)
	fmt.Printf("  Model:           %s\n", stats.Model)
	fmt.Printf("  Dimension:       %d\n", stats.Dimension)
	fmt.Printf("  From cache:      %v\n", stats.FromCache)
	fmt.Printf("  Took:            %s\n", formatDuration(time.Since(start)))
	if cfg.Cache.Enabled {
		fmt.Printf("\nVectors stored at: %s\n", dbPath)
	}
	return nil
}

func printCacheStatus(dbPath string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Printf("No vector cache at %s\n", dbPath)
		return nil
	}

	c, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()

	st, err := c.Inspect()
	if err != nil {
		return fmt.Errorf("failed to inspect cache: %w", err)
	}

	fmt.Printf("Vector cache: %s\n", dbPath)
	if !st.Present {
		fmt.Printf("  Status: empty (%s)\n", st.Reason)
		return nil
	}
	fmt.Printf("  Schema:  v%d\n", st.SchemaVersion)
	fmt.Printf("  Model:   %s\n", st.Model)
	fmt.Printf("  Rows:    %d\n", st.Rows)
	fmt.Printf("  Created: %s\n", st.CreatedAt.Format(time.RFC3339))
	if st.NeedsRebuild {
		fmt.Printf("  Rebuild needed: %s\n", st.Reason)
	}
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
