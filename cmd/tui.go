package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse <candidate-id>",
	Aliases: []string{"tui"},
	Short:   "Browse ranked jobs interactively",
	Long:    "Rank every saved job for a candidate and step through the results in the terminal",
	Args:    cobra.ExactArgs(1),
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

		if len(jobs) == 0 {
			cmd.Println("No jobs found. Add jobs with 'rigmatch job add' or 'rigmatch seed'")
			return nil
		}

		// Browsing shows everything in range so weak matches can be inspected too
		opts := a.RankOptions()
		opts.MinScore = 0
		results, err := a.Matcher.Rank(cmd.Context(), candidate, jobs, opts)
		if err != nil {
			return err
		}

		byID := make(map[string]*models.JobRequirement, len(jobs))
		for _, job := range jobs {
			byID[job.JobID] = job
		}

		runBrowser(cmd, bufio.NewReader(cmd.InOrStdin()), candidate, results, byID)
		return nil
	},
}

func runBrowser(cmd *cobra.Command, reader *bufio.Reader, candidate *models.CandidateProfile, results []*models.MatchResult, jobs map[string]*models.JobRequirement) {
	if len(results) == 0 {
		cmd.Println("No jobs within range of this candidate")
		return
	}

	for {
		// Display ranked list
		cmd.Println(titleStyle.Render(fmt.Sprintf("Jobs for %s", displayName(candidate))))
		cmd.Println("Press 'q' to quit, or enter a job number to view details")
		cmd.Println()

		for i, r := range results {
			cmd.Printf("%d. %s  %s\n", i+1, renderScore(r.Score), jobTitle(jobs[r.JobID]))
		}

		cmd.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "q" || input == "Q" || (err == io.EOF && input == "") {
			return
		}

		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(results) {
			cmd.Println("Invalid selection")
			if err != nil {
				return
			}
			continue
		}

		r := results[n-1]
		if !displayMatchDetails(cmd, reader, jobs[r.JobID], r) {
			return
		}
	}
}

// displayMatchDetails returns false when input is exhausted
func displayMatchDetails(cmd *cobra.Command, reader *bufio.Reader, job *models.JobRequirement, r *models.MatchResult) bool {
	for {
		cmd.Println("\n" + strings.Repeat("=", 60))
		cmd.Println(titleStyle.Render(jobTitle(job)))
		cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), orNone(job.RequiredSkills))
		cmd.Printf("%s %s\n", labelStyle.Render("Certifications:"), orNone(job.RequiredCertifications))
		if job.PayRate > 0 {
			cmd.Printf("%s $%.2f/h\n", labelStyle.Render("Pay:"), job.PayRate)
		}
		if job.Urgency != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Urgency:"), job.Urgency)
		}
		cmd.Println()
		printMatch(cmd, r)

		cmd.Println("\nOptions:")
		cmd.Println("  [s] Save to match history")
		cmd.Println("  [b] Back to list")
		cmd.Print("\n> ")

		choice, readErr := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "s":
			// A failed save stays on this job so it can be retried
			if saveErr := database.SaveMatchResults([]*models.MatchResult{r}); saveErr != nil {
				cmd.Printf("Error: %v\n", saveErr)
				if readErr != nil {
					return false
				}
				continue
			}
			cmd.Println("✓ Saved to match history")
			return readErr == nil
		case "b":
			return readErr == nil
		default:
			if readErr != nil {
				return false
			}
			cmd.Println("Invalid choice")
		}
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
