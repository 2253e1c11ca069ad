package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riggerhire/rigmatch/internal/app"
	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/spf13/cobra"
)

var candidateCmd = &cobra.Command{
	Use:     "candidate",
	Aliases: []string{"candidates"},
	Short:   "Manage candidate profiles",
	Long:    "Add, list, view, and remove candidate profiles and their certifications",
}

var addCandidateCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a candidate profile",
	Example: `  rigmatch candidate add --name "Sam Rigger" --skills rigging,dogging --years 6 --lat -31.95 --lon 115.86
  rigmatch candidate add --name "New Starter" --level entry --lat -32.05 --lon 115.74`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		level, _ := cmd.Flags().GetString("level")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		rating, _ := cmd.Flags().GetFloat64("rating")
		completed, _ := cmd.Flags().GetInt("completed-jobs")

		if id == "" {
			id = uuid.NewString()
		}

		candidate := &models.CandidateProfile{
			CandidateID:   id,
			Name:          name,
			Skills:        skills,
			Experience:    models.Experience{Level: models.ExperienceLevel(strings.ToLower(level))},
			Location:      models.Location{Latitude: lat, Longitude: lon},
			Rating:        rating,
			CompletedJobs: completed,
		}
		if cmd.Flags().Changed("years") {
			years, _ := cmd.Flags().GetFloat64("years")
			candidate.Experience.Years = &years
		}

		if err := matcher.ValidateCandidate(candidate); err != nil {
			return err
		}

		if err := database.CreateCandidate(candidate); err != nil {
			return fmt.Errorf("save candidate: %w", err)
		}

		cmd.Printf("✓ Candidate added: %s (ID: %s)\n", displayName(candidate), candidate.CandidateID)
		return nil
	},
}

var listCandidatesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := database.GetAllCandidates()
		if err != nil {
			return fmt.Errorf("fetch candidates: %w", err)
		}

		if len(candidates) == 0 {
			cmd.Println("No candidates found. Add one with 'rigmatch candidate add' or load samples with 'rigmatch seed'")
			return nil
		}

		cmd.Println(titleStyle.Render("Candidates"))
		for i, c := range candidates {
			cmd.Printf("\n%s. %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), displayName(c))
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), c.CandidateID)
			if len(c.Skills) > 0 {
				cmd.Printf("   %s %s\n", labelStyle.Render("Skills:"), strings.Join(c.Skills, ", "))
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Experience:"), describeExperience(c.Experience))
		}
		return nil
	},
}

var showCandidateCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Show details of a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := database.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("fetch candidate: %w", err)
		}

		cmd.Println(titleStyle.Render(displayName(c)))
		cmd.Printf("%s %s\n", labelStyle.Render("ID:"), c.CandidateID)
		cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), valueStyle.Render(strings.Join(c.Skills, ", ")))
		cmd.Printf("%s %s\n", labelStyle.Render("Experience:"), describeExperience(c.Experience))
		cmd.Printf("%s %.4f, %.4f\n", labelStyle.Render("Location:"), c.Location.Latitude, c.Location.Longitude)
		cmd.Printf("%s %.1f (%d jobs completed)\n", labelStyle.Render("Rating:"), c.Rating, c.CompletedJobs)

		if len(c.Certifications) > 0 {
			cmd.Println(labelStyle.Render("\nCertifications:"))
			now := time.Now()
			for _, cert := range c.Certifications {
				status := "valid"
				switch {
				case !cert.IsValid:
					status = "invalid"
				case !cert.ExpiryDate.After(now):
					status = "expired"
				}
				cmd.Printf("  - %s (expires %s, %s)\n", cert.Type, cert.ExpiryDate.Format("Jan 2, 2006"), status)
			}
		}
		return nil
	},
}

var removeCandidateCmd = &cobra.Command{
	Use:   "remove <candidate-id>",
	Short: "Remove a candidate and their match history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.DeleteCandidate(args[0]); err != nil {
			return fmt.Errorf("remove candidate: %w", err)
		}
		cmd.Printf("✓ Removed candidate (ID: %s)\n", args[0])
		return nil
	},
}

var addCertCmd = &cobra.Command{
	Use:     "cert <candidate-id>",
	Short:   "Add a certification to a candidate",
	Args:    cobra.ExactArgs(1),
	Example: `  rigmatch candidate cert cand-perth-001 --type rigging_intermediate --expires 2027-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		certType, _ := cmd.Flags().GetString("type")
		expires, _ := cmd.Flags().GetString("expires")
		invalid, _ := cmd.Flags().GetBool("invalid")

		if strings.TrimSpace(certType) == "" || expires == "" {
			return fmt.Errorf("%w: --type and --expires are required", app.ErrInvalidArgument)
		}

		expiry, err := time.Parse("2006-01-02", expires)
		if err != nil {
			return fmt.Errorf("%w: invalid expiry date format, use YYYY-MM-DD", app.ErrInvalidArgument)
		}

		cert := &models.Certification{Type: certType, IsValid: !invalid, ExpiryDate: expiry}
		if err := database.AddCertification(args[0], cert); err != nil {
			return fmt.Errorf("add certification: %w", err)
		}

		cmd.Printf("✓ Added certification %s to %s\n", cert.Type, args[0])
		return nil
	},
}

func displayName(c *models.CandidateProfile) string {
	if c.Name != "" {
		return c.Name
	}
	return c.CandidateID
}

func describeExperience(exp models.Experience) string {
	years := matcher.EffectiveYears(exp)
	switch {
	case exp.Years != nil:
		return fmt.Sprintf("%.1f years", years)
	case exp.Level != "":
		return fmt.Sprintf("%s (~%.0f years)", exp.Level, years)
	default:
		return "not recorded"
	}
}

func init() {
	rootCmd.AddCommand(candidateCmd)
	candidateCmd.AddCommand(addCandidateCmd)
	candidateCmd.AddCommand(listCandidatesCmd)
	candidateCmd.AddCommand(showCandidateCmd)
	candidateCmd.AddCommand(removeCandidateCmd)
	candidateCmd.AddCommand(addCertCmd)

	// Flags for add command
	addCandidateCmd.Flags().String("id", "", "Candidate ID (generated when empty)")
	addCandidateCmd.Flags().String("name", "", "Display name")
	addCandidateCmd.Flags().StringSlice("skills", nil, "Comma-separated skills")
	addCandidateCmd.Flags().Float64("years", 0, "Years of experience (takes precedence over --level)")
	addCandidateCmd.Flags().String("level", "", "Experience level (entry, junior, intermediate, senior, expert)")
	addCandidateCmd.Flags().Float64("lat", 0, "Home latitude in decimal degrees")
	addCandidateCmd.Flags().Float64("lon", 0, "Home longitude in decimal degrees")
	addCandidateCmd.Flags().Float64("rating", 0, "Rating between 0 and 5")
	addCandidateCmd.Flags().Int("completed-jobs", 0, "Number of completed jobs")

	// Flags for cert command
	addCertCmd.Flags().String("type", "", "Certification type, e.g. rigging_basic (required)")
	addCertCmd.Flags().String("expires", "", "Expiry date (YYYY-MM-DD, required)")
	addCertCmd.Flags().Bool("invalid", false, "Record the certification as not valid")
}
