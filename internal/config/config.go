package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ssematimba/worklogr/internal/worklog"
)

type Config struct {
	Jira   JiraConfig
	Output OutputConfig
}

type JiraConfig struct {
	AccessToken string
	ProjectKey  string

	// FilterBy controls which author field the --user filter compares
	// against. The upstream API is inconsistent about this, so it is a
	// setting rather than a hardwired choice.
	FilterBy worklog.FilterTarget
}

type OutputConfig struct {
	Directory string
	Format    []string // json, csv, xlsx
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Jira: JiraConfig{
			AccessToken: os.Getenv("JIRA_ACCESS_TOKEN"),
			ProjectKey:  os.Getenv("JIRA_PROJECT_KEY"),
			FilterBy:    worklog.FilterTarget(getEnvOrDefault("WORKLOGR_FILTER_BY", string(worklog.FilterByAccountID))),
		},
		Output: OutputConfig{
			Directory: getEnvOrDefault("OUTPUT_DIR", "reports"),
			Format:    strings.Split(getEnvOrDefault("OUTPUT_FORMAT", "json,csv"), ","),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Jira.AccessToken == "" {
		return fmt.Errorf("no access token configured (set JIRA_ACCESS_TOKEN)")
	}

	switch c.Jira.FilterBy {
	case worklog.FilterByAccountID, worklog.FilterByEmail:
	default:
		return fmt.Errorf("WORKLOGR_FILTER_BY must be %q or %q", worklog.FilterByAccountID, worklog.FilterByEmail)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
