package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score and rank jobs for a candidate",
}

var scoreMatchCmd = &cobra.Command{
	Use:   "score <candidate-id> <job-id>",
	Short: "Score one candidate against one job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		candidate, err := database.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}
		job, err := database.GetJob(args[1])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		result, err := a.Matcher.Score(candidate, job)
		if err != nil {
			return err
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			if err := database.SaveMatchResults([]*models.MatchResult{result}); err != nil {
				return fmt.Errorf("save match: %w", err)
			}
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("%s → %s", displayName(candidate), jobTitle(job))))
		printMatch(cmd, result)
		return nil
	},
}

var rankMatchCmd = &cobra.Command{
	Use:   "rank <candidate-id>",
	Short: "Rank every saved job for a candidate",
	Args:  cobra.ExactArgs(1),
	Example: `  rigmatch match rank cand-perth-001
  rigmatch match rank cand-perth-001 --min-score 0.8 --max-distance 0 --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		candidate, err := database.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}
		jobs, err := database.GetAllJobs()
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		opts := a.RankOptions()
		if cmd.Flags().Changed("min-score") {
			opts.MinScore, _ = cmd.Flags().GetFloat64("min-score")
		}
		if cmd.Flags().Changed("max-distance") {
			opts.MaxDistanceKm, _ = cmd.Flags().GetFloat64("max-distance")
		}

		results, err := a.Matcher.Rank(cmd.Context(), candidate, jobs, opts)
		if err != nil {
			var failure *matcher.ScoringFailure
			if errors.As(err, &failure) {
				cmd.PrintErrln(errorStyle.Render("Jobs that could not be scored:"))
				for _, f := range failure.Failures {
					cmd.PrintErrf("  - %s: %v\n", f.JobID, f.Err)
				}
			}
			return err
		}

		if len(results) == 0 {
			cmd.Printf("No jobs scored %.0f%% or higher for %s\n", opts.MinScore*100, displayName(candidate))
			return nil
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			if err := database.SaveMatchResults(results); err != nil {
				return fmt.Errorf("save matches: %w", err)
			}
		}

		titles := make(map[string]string, len(jobs))
		for _, job := range jobs {
			titles[job.JobID] = jobTitle(job)
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Ranked jobs for %s", displayName(candidate))))
		for i, r := range results {
			cmd.Printf("%2d. %s  %s  %s\n", i+1, renderScore(r.Score), titles[r.JobID],
				valueStyle.Render(fmt.Sprintf("(%.1f km)", r.DistanceKm)))
			if len(r.Reasoning) > 0 {
				cmd.Printf("    %s\n", strings.Join(r.Reasoning, "; "))
			}
		}
		if save {
			cmd.Printf("\n✓ Saved %d results to match history\n", len(results))
		}
		return nil
	},
}

var historyMatchCmd = &cobra.Command{
	Use:   "history <candidate-id>",
	Short: "Show saved match results for a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate, err := database.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		history, err := database.GetMatchHistory(candidate.CandidateID, limit)
		if err != nil {
			return fmt.Errorf("fetch match history: %w", err)
		}

		if len(history) == 0 {
			cmd.Println("No saved matches. Run 'rigmatch match rank <candidate-id> --save' first")
			return nil
		}

		cmd.Println(titleStyle.Render(fmt.Sprintf("Match history for %s", displayName(candidate))))
		for _, r := range history {
			cmd.Printf("%s  %s  %s\n", r.ScoredAt.Format("Jan 2 15:04"), renderScore(r.Score), r.JobID)
		}
		return nil
	},
}

func printMatch(cmd *cobra.Command, r *models.MatchResult) {
	cmd.Printf("%s %s\n", labelStyle.Render("Score:"), renderScore(r.Score))
	cmd.Printf("%s %.0f%%\n", labelStyle.Render("Confidence:"), r.Confidence*100)
	cmd.Printf("%s %.1f km\n", labelStyle.Render("Distance:"), r.DistanceKm)

	cmd.Println(labelStyle.Render("\nBreakdown:"))
	cmd.Printf("  Skills:         %s\n", renderScore(r.Breakdown.Skill))
	cmd.Printf("  Experience:     %s\n", renderScore(r.Breakdown.Experience))
	cmd.Printf("  Location:       %s\n", renderScore(r.Breakdown.Location))
	cmd.Printf("  Certifications: %s\n", renderScore(r.Breakdown.Certification))

	if len(r.Reasoning) > 0 {
		cmd.Println(labelStyle.Render("\nWhy:"))
		for _, reason := range r.Reasoning {
			cmd.Printf("  - %s\n", reason)
		}
	}
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(scoreMatchCmd)
	matchCmd.AddCommand(rankMatchCmd)
	matchCmd.AddCommand(historyMatchCmd)

	scoreMatchCmd.Flags().Bool("save", false, "Save the result to match history")

	rankMatchCmd.Flags().Float64("min-score", matcher.DefaultMinScore, "Minimum score to include (defaults to min_score from config)")
	rankMatchCmd.Flags().Float64("max-distance", matcher.DefaultMaxDistanceKm, "Drop jobs further than this many km, 0 disables (defaults to max_distance_km from config)")
	rankMatchCmd.Flags().Bool("save", false, "Save the ranked results to match history")

	historyMatchCmd.Flags().Int("limit", 20, "Maximum number of results to show")
}
