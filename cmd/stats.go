package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <candidate-id>",
	Short: "View match statistics for a candidate",
	Long:  "Summarise saved match results: how many jobs were scored, average and best scores, and which factors keep coming up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidate, err := database.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}

		history, err := database.GetMatchHistory(candidate.CandidateID, statsHistoryLimit)
		if err != nil {
			return fmt.Errorf("fetch match history: %w", err)
		}

		if len(history) == 0 {
			cmd.Println("No saved matches yet. Rank jobs with 'rigmatch match rank <candidate-id> --save'")
			return nil
		}

		stats := calculateStats(history, time.Now())

		cmd.Println(titleStyle.Render(fmt.Sprintf("Match Statistics for %s", displayName(candidate))))

		cmd.Printf("\n%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Saved Matches: %d\n", stats.Total)
		cmd.Printf("  Distinct Jobs: %d\n", stats.DistinctJobs)
		cmd.Printf("  Average Score: %s\n", renderScore(stats.AverageScore))
		cmd.Printf("  Best Score: %s (%s)\n", renderScore(stats.BestScore), stats.BestJobID)

		cmd.Printf("\n%s\n", labelStyle.Render("Average Breakdown"))
		cmd.Printf("  Skills:         %s\n", renderScore(stats.AverageBreakdown.Skill))
		cmd.Printf("  Experience:     %s\n", renderScore(stats.AverageBreakdown.Experience))
		cmd.Printf("  Location:       %s\n", renderScore(stats.AverageBreakdown.Location))
		cmd.Printf("  Certifications: %s\n", renderScore(stats.AverageBreakdown.Certification))

		if len(stats.Reasons) > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Reasons"))
			for _, rc := range stats.Reasons {
				percentage := float64(rc.Count) / float64(stats.Total) * 100
				cmd.Printf("  %s: %d (%.1f%%)\n", rc.Reason, rc.Count, percentage)
			}
		}

		if stats.Recent > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Recent Activity"))
			cmd.Printf("  Matches saved in the last 30 days: %d\n", stats.Recent)
		}
		return nil
	},
}

const statsHistoryLimit = 1000

// Stats summarises a candidate's saved match history
type Stats struct {
	Total            int
	DistinctJobs     int
	AverageScore     float64
	BestScore        float64
	BestJobID        string
	AverageBreakdown models.Breakdown
	Reasons          []ReasonCount
	Recent           int
}

type ReasonCount struct {
	Reason string
	Count  int
}

func calculateStats(history []*models.MatchResult, now time.Time) Stats {
	stats := Stats{Total: len(history)}
	if stats.Total == 0 {
		return stats
	}

	jobs := make(map[string]struct{})
	reasons := make(map[string]int)
	var sum float64
	var breakdown models.Breakdown

	for i, r := range history {
		jobs[r.JobID] = struct{}{}
		sum += r.Score
		breakdown.Skill += r.Breakdown.Skill
		breakdown.Experience += r.Breakdown.Experience
		breakdown.Location += r.Breakdown.Location
		breakdown.Certification += r.Breakdown.Certification

		if i == 0 || r.Score > stats.BestScore {
			stats.BestScore = r.Score
			stats.BestJobID = r.JobID
		}
		for _, reason := range r.Reasoning {
			reasons[reason]++
		}
		if now.Sub(r.ScoredAt) < 30*24*time.Hour {
			stats.Recent++
		}
	}

	n := float64(stats.Total)
	stats.DistinctJobs = len(jobs)
	stats.AverageScore = sum / n
	stats.AverageBreakdown = models.Breakdown{
		Skill:         breakdown.Skill / n,
		Experience:    breakdown.Experience / n,
		Location:      breakdown.Location / n,
		Certification: breakdown.Certification / n,
	}

	for reason, count := range reasons {
		stats.Reasons = append(stats.Reasons, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(stats.Reasons, func(i, j int) bool {
		if stats.Reasons[i].Count != stats.Reasons[j].Count {
			return stats.Reasons[i].Count > stats.Reasons[j].Count
		}
		return stats.Reasons[i].Reason < stats.Reasons[j].Reason
	})

	return stats
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
