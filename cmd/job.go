package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/riggerhire/rigmatch/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var jobCmd = &cobra.Command{
	Use:     "job",
	Aliases: []string{"jobs"},
	Short:   "Manage job requirements",
	Long:    "Add, list, view, and remove jobs that candidates are matched against",
}

var addJobCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job",
	Example: `  rigmatch job add --title "Tower crane lift" --skills rigging,heavy_lifting --level intermediate \
    --certs rigging_basic,safety_certificate --lat -31.95 --lon 115.86`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		title, _ := cmd.Flags().GetString("title")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		certs, _ := cmd.Flags().GetStringSlice("certs")
		level, _ := cmd.Flags().GetString("level")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		payRate, _ := cmd.Flags().GetFloat64("pay-rate")
		duration, _ := cmd.Flags().GetString("duration")
		urgency, _ := cmd.Flags().GetString("urgency")

		if id == "" {
			id = uuid.NewString()
		}

		job := &models.JobRequirement{
			JobID:                  id,
			Title:                  title,
			RequiredSkills:         skills,
			ExperienceLevel:        models.ExperienceLevel(strings.ToLower(level)),
			RequiredCertifications: certs,
			Location:               models.Location{Latitude: lat, Longitude: lon},
			PayRate:                payRate,
			Duration:               duration,
			Urgency:                urgency,
		}

		if err := matcher.ValidateJob(job); err != nil {
			return err
		}

		if err := database.CreateJob(job); err != nil {
			return fmt.Errorf("save job: %w", err)
		}

		cmd.Printf("✓ Job added: %s (ID: %s)\n", jobTitle(job), job.JobID)
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, err := database.GetAllJobs()
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}

		if len(jobs) == 0 {
			cmd.Println("No jobs found. Add jobs with 'rigmatch job add' or load samples with 'rigmatch seed'")
			return nil
		}

		cmd.Println(titleStyle.Render("Saved Jobs"))
		for i, job := range jobs {
			cmd.Printf("\n%s. %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), jobTitle(job))
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.JobID)
			if job.ExperienceLevel != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Level:"), titleCase(string(job.ExperienceLevel)))
			}
			cmd.Printf("   %s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := database.GetJob(args[0])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		cmd.Println(titleStyle.Render(jobTitle(job)))
		cmd.Printf("%s %s\n", labelStyle.Render("ID:"), job.JobID)
		cmd.Printf("%s %s\n", labelStyle.Render("Skills:"), orNone(job.RequiredSkills))
		cmd.Printf("%s %s\n", labelStyle.Render("Certifications:"), orNone(job.RequiredCertifications))
		if job.ExperienceLevel != "" {
			cmd.Printf("%s %s (%.0f+ years)\n", labelStyle.Render("Level:"),
				titleCase(string(job.ExperienceLevel)), matcher.RequiredYears(job.ExperienceLevel))
		}
		cmd.Printf("%s %.4f, %.4f\n", labelStyle.Render("Location:"), job.Location.Latitude, job.Location.Longitude)
		if job.PayRate > 0 {
			cmd.Printf("%s $%.2f/h\n", labelStyle.Render("Pay:"), job.PayRate)
		}
		if job.Duration != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Duration:"), job.Duration)
		}
		if job.Urgency != "" {
			cmd.Printf("%s %s\n", labelStyle.Render("Urgency:"), job.Urgency)
		}
		cmd.Printf("%s %s\n", labelStyle.Render("Added:"), job.CreatedAt.Format("Jan 2, 2006 15:04"))
		return nil
	},
}

var removeJobCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := database.GetJob(args[0])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		if err := database.DeleteJob(job.JobID); err != nil {
			return fmt.Errorf("remove job: %w", err)
		}

		cmd.Printf("✓ Removed job: %s\n", jobTitle(job))
		return nil
	},
}

func jobTitle(job *models.JobRequirement) string {
	if job.Title != "" {
		return job.Title
	}
	return job.JobID
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

// titleCase converts a string to title case using proper locale-aware capitalization
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(addJobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(removeJobCmd)

	// Flags for add command
	addJobCmd.Flags().String("id", "", "Job ID (generated when empty)")
	addJobCmd.Flags().String("title", "", "Job title")
	addJobCmd.Flags().StringSlice("skills", nil, "Comma-separated required skills")
	addJobCmd.Flags().StringSlice("certs", nil, "Comma-separated required certification types")
	addJobCmd.Flags().String("level", "", "Required experience level (entry, junior, intermediate, senior, expert)")
	addJobCmd.Flags().Float64("lat", 0, "Site latitude in decimal degrees")
	addJobCmd.Flags().Float64("lon", 0, "Site longitude in decimal degrees")
	addJobCmd.Flags().Float64("pay-rate", 0, "Hourly pay rate")
	addJobCmd.Flags().String("duration", "", "Expected duration, e.g. \"2 weeks\"")
	addJobCmd.Flags().String("urgency", "", "Urgency (low, medium, high)")
}
