package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/schollz/progressbar/v3"

	"github.com/ssematimba/worklogr/internal/config"
	"github.com/ssematimba/worklogr/internal/dates"
	"github.com/ssematimba/worklogr/internal/worklog"
	"github.com/ssematimba/worklogr/internal/worklogr"
)

const runTimeout = 10 * time.Minute

var (
	dateFrom   string
	dateTo     string
	username   string
	projectKey string
	baseJQL    string
	token      string
	output     string
	formats    string
	filterBy   string
)

var rootCmd = &cobra.Command{
	Use:   "worklogr",
	Short: "Aggregate Jira worklogs by user and issue",
	Long:  `Worklogr fetches worklogs from the Jira Cloud REST API over a date range and reports logged hours per user and per issue.`,
	RunE:  generate,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&dateFrom, "from", "", "Start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&dateTo, "to", "", "End date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&username, "user", "u", "", "Only include worklogs by this user")
	rootCmd.Flags().StringVarP(&projectKey, "project", "p", "", "Jira project key")
	rootCmd.Flags().StringVar(&baseJQL, "jql", "", "Base JQL filter to combine with the generated clauses")
	rootCmd.Flags().StringVar(&token, "token", "", "Jira OAuth access token")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output directory")
	rootCmd.Flags().StringVar(&formats, "format", "", "Comma-separated output formats: json, csv, xlsx")
	rootCmd.Flags().StringVar(&filterBy, "filter-by", "", "Field the user filter compares against: accountId or email")
}

func generate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	if token != "" {
		cfg.Jira.AccessToken = token
	}
	if projectKey != "" {
		cfg.Jira.ProjectKey = projectKey
	}
	if filterBy != "" {
		cfg.Jira.FilterBy = worklog.FilterTarget(filterBy)
	}
	if output != "" {
		cfg.Output.Directory = output
	}
	if formats != "" {
		cfg.Output.Format = parseCommaList(formats)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	from := dates.NormalizeISO(dateFrom)
	to := dates.NormalizeISO(dateTo)

	if from != "" && to != "" {
		fmt.Printf("Aggregating worklogs from %s to %s\n", from, to)
	} else {
		fmt.Println("Aggregating worklogs for the default window (last 30 days)")
	}

	app := worklogr.New(cfg)

	// Overall deadline for the whole aggregation; cancellation reaches
	// every in-flight upstream request.
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	bar := newSpinner("Fetching worklogs")
	defer finishBar(bar)

	resp, err := app.Run(ctx, worklog.Request{
		From:       from,
		To:         to,
		Username:   username,
		ProjectKey: cfg.Jira.ProjectKey,
		BaseJQL:    baseJQL,
	})
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	finishBar(bar)

	if len(resp.Users) == 0 {
		fmt.Println("\nNo worklogs found for this period")
		return nil
	}

	fmt.Printf("\nReports saved to %s/\n", cfg.Output.Directory)
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Issues scanned: %d\n", resp.IssuesScanned)
	if resp.Degraded > 0 {
		fmt.Printf("  Issues with unavailable worklogs: %d\n", resp.Degraded)
	}
	for _, user := range resp.Users {
		fmt.Printf("  %s: %s hours across %d issues\n", user.User, user.TotalHours, len(user.Issues))
	}

	return nil
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
