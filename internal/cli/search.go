package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assessrec/config"
	"assessrec/internal/domain"
)

var (
	searchQuery   string
	searchSkills  string
	searchTopK    int
	searchJSON    bool
	searchExplain bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank catalogue assessments for a job description",
	Long: `Rank the catalogue against a free-text query and an optional comma separated
skill list.

Examples:
  assessrec search -q "Senior Java developer with Spring" -s "java, spring"
  assessrec search -q "sales manager" -k 5 --explain
  assessrec search -q "data analyst" --semantic-weight 0.7 --skill-weight 0.3 --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "job description or query text")
	searchCmd.Flags().StringVarP(&searchSkills, "skills", "s", "", "comma separated required skills")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	addWeightFlags(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show score breakdown")
}

func addWeightFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("semantic-weight", 0, "weight of text similarity (default from config)")
	cmd.Flags().Float64("skill-weight", 0, "weight of skill overlap (default from config)")
}

// searchWeights returns nil unless a weight flag was given. A flag left unset
// falls back to the configured value.
func searchWeights(cmd *cobra.Command, rank config.RankConfig) (*domain.Weights, error) {
	flags := cmd.Flags()
	semanticSet := flags.Changed("semantic-weight")
	skillSet := flags.Changed("skill-weight")
	if !semanticSet && !skillSet {
		return nil, nil
	}

	w := domain.Weights{Semantic: rank.SemanticWeight, Skill: rank.SkillWeight}
	if semanticSet {
		v, err := flags.GetFloat64("semantic-weight")
		if err != nil {
			return nil, err
		}
		w.Semantic = v
	}
	if skillSet {
		v, err := flags.GetFloat64("skill-weight")
		if err != nil {
			return nil, err
		}
		w.Skill = v
	}
	return &w, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(searchQuery) == "" && strings.TrimSpace(searchSkills) == "" {
		return fmt.Errorf("either --query or --skills is required")
	}
	cfg := GetConfig()

	svc, err := newService(cmd.Context(), cfg, GetRootDir(), serviceOptions{})
	if err != nil {
		return err
	}
	if _, err := svc.Load(cmd.Context()); err != nil {
		return err
	}

	req := domain.SearchRequest{
		Query:   searchQuery,
		Skills:  searchSkills,
		TopK:    cfg.Rank.TopK,
		Explain: searchExplain,
	}
	if searchTopK > 0 {
		req.TopK = searchTopK
	}
	req.Weights, err = searchWeights(cmd, cfg.Rank)
	if err != nil {
		return err
	}

	results, err := svc.Recommend(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Top %d assessments for: %s\n\n", len(results), strings.TrimSpace(searchQuery+" "+searchSkills))
	for _, r := range results {
		hit := r.Hit()
		fmt.Printf("--- [%d] %s (score: %.3f) ---\n", r.Rank, hit.Name, hit.Score)
		fmt.Println(hit.URL)
		if r.Entry.Category != "" {
			fmt.Printf("Type: %s", r.Entry.Category)
			if r.Entry.Duration != "" {
				fmt.Printf("  Duration: %s", r.Entry.Duration)
			}
			fmt.Println()
		}
		desc := hit.Description
		if len([]rune(desc)) > 300 {
			desc = string([]rune(desc)[:300]) + "..."
		}
		fmt.Println(desc)
		if b := r.Breakdown; b != nil {
			fmt.Printf("semantic=%.3f skill=%.3f boost=%.2f", b.Semantic, b.Skill, b.Boost)
			if len(b.Rules) > 0 {
				fmt.Printf(" rules=%s", strings.Join(b.Rules, ","))
			}
			fmt.Println()
		}
		fmt.Println()
	}
	return nil
}
