package worklogr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ssematimba/worklogr/internal/config"
	"github.com/ssematimba/worklogr/internal/jira"
	"github.com/ssematimba/worklogr/internal/report"
	"github.com/ssematimba/worklogr/internal/worklog"
)

type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Service  *worklog.Service
	Exporter *report.Exporter
	Excel    *report.ExcelExporter
}

func New(cfg *config.Config) *Application {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	service := worklog.NewService(jira.NewClient(), logger, cfg.Jira.FilterBy)

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Service:  service,
		Exporter: report.NewExporter(cfg.Output.Directory),
		Excel:    report.NewExcelExporter(cfg.Output.Directory),
	}
}

// Run executes one aggregation and writes the configured report formats.
func (app *Application) Run(ctx context.Context, req worklog.Request) (*worklog.Response, error) {
	app.Logger.Info("aggregating worklogs",
		"from", req.From,
		"to", req.To,
		"user", req.Username,
		"project", req.ProjectKey,
	)

	resp, err := app.Service.Aggregate(ctx, app.Config.Jira.AccessToken, req)
	if err != nil {
		app.Logger.Error("aggregation failed", "error", err)
		return nil, err
	}

	if len(resp.Users) == 0 {
		app.Logger.Warn("no worklogs found for this period")
		return resp, nil
	}

	if err := os.MkdirAll(app.Config.Output.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")

	for _, format := range app.Config.Output.Format {
		switch format {
		case "json":
			filename := fmt.Sprintf("worklogs_%s.json", timestamp)
			if err := app.Exporter.ExportJSON(resp, filename); err != nil {
				app.Logger.Error("failed to export JSON", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "json", "file", filename)
			}

		case "csv":
			if err := app.Exporter.ExportCSV(resp, timestamp, req.From, req.To); err != nil {
				app.Logger.Error("failed to export CSV", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "csv")
			}

		case "xlsx":
			if err := app.Excel.Export(resp, timestamp, req.From, req.To); err != nil {
				app.Logger.Error("failed to export Excel", "error", err)
			} else {
				app.Logger.Info("report exported", "format", "xlsx")
			}

		default:
			app.Logger.Warn("unknown output format", "format", format)
		}
	}

	app.Logger.Info("aggregation complete",
		"users", len(resp.Users),
		"issues", resp.IssuesScanned,
		"degraded", resp.Degraded,
	)

	return resp, nil
}
