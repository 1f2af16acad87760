package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"assessrec/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal search",
	Long: `Open an interactive search screen. Enter runs a search for the top 10
assessments, Tab switches between the query and skills fields, up/down browse
results and Esc quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context(), GetConfig(), GetRootDir(), serviceOptions{queryCache: true})
	if err != nil {
		return err
	}
	stats, err := svc.Load(cmd.Context())
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%d assessments · %s", stats.Entries, stats.Model)
	if _, err := tea.NewProgram(tui.New(svc, summary), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
