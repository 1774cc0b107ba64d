package export

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

// GSheetExporter pushes a group's attestation table into a spreadsheet
// on a cron schedule. Totals come from a fresh ComputeGroup pass, so
// the sheet always shows the current standings.
type GSheetExporter struct {
	config        *app.Config
	service       *app.Service
	scheduler     *gocron.Scheduler
	sheetsService *sheets.Service
}

func NewGSheetExporter(service *app.Service) (*GSheetExporter, error) {
	ctx := context.Background()
	scheduler := gocron.NewScheduler(time.UTC)

	config := service.Config
	for courseName, configs := range config.GSheet {
		for _, cfg := range configs {
			svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath))
			if err != nil {
				return nil, fmt.Errorf("failed to create sheets service: %w", err)
			}

			exporter := &GSheetExporter{
				config:        config,
				service:       service,
				scheduler:     scheduler,
				sheetsService: svc,
			}

			course := courseName
			sheetCfg := cfg
			_, err = scheduler.Cron(cfg.Schedule).Do(func() {
				if err := exporter.Export(course, &sheetCfg); err != nil {
					logger.Error.Printf("Export failed for %s: %v", course, err)
				}
			})
			if err != nil {
				return nil, fmt.Errorf("failed to schedule export: %w", err)
			}
		}
	}

	scheduler.StartAsync()
	return nil, nil
}

// Export writes total score and grade label next to every student the
// sheet lists. Students missing from the computed group keep their
// cells untouched.
func (e *GSheetExporter) Export(courseName string, cfg *app.GSheetConfig) error {
	report, err := e.service.GetGroupReport(courseName, cfg.GroupID, models.Period(cfg.Period))
	if err != nil {
		return fmt.Errorf("failed to compute group report: %w", err)
	}

	byStudent := make(map[string]models.AttestationResult, len(report.PerStudent))
	for _, res := range report.PerStudent {
		byStudent[res.Student] = res
	}

	readRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.StudentsRange)
	resp, err := e.sheetsService.Spreadsheets.Values.Get(cfg.SheetID, readRange).Do()
	if err != nil {
		return fmt.Errorf("failed to read students: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		student, ok := row[0].(string)
		if !ok {
			continue
		}
		res, ok := byStudent[student]
		if !ok {
			continue
		}

		sheetRow := i + 4 // Assuming start from row 4

		updateRange := fmt.Sprintf("%s!%s%d", cfg.SheetName, cfg.ScoresColumn, sheetRow)
		_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
			&sheets.ValueRange{Values: [][]interface{}{{res.TotalScore}}}).ValueInputOption("RAW").Do()
		if err != nil {
			return fmt.Errorf("failed to update score cell: %w", err)
		}

		if cfg.GradesColumn != "" {
			updateRange = fmt.Sprintf("%s!%s%d", cfg.SheetName, cfg.GradesColumn, sheetRow)
			_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
				&sheets.ValueRange{Values: [][]interface{}{{res.GradeLabel}}}).ValueInputOption("RAW").Do()
			if err != nil {
				return fmt.Errorf("failed to update grade cell: %w", err)
			}
		}
	}

	emoji := ""
	if len(e.config.EmojiVariants) > 0 {
		emoji = e.config.EmojiVariants[rand.Intn(len(e.config.EmojiVariants))]
	}
	timestamp := fmt.Sprintf("UPD: %s %s", time.Now().Format("2 January 15:04"), emoji)

	updateRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampRange)
	_, err = e.sheetsService.Spreadsheets.Values.Update(cfg.SheetID, updateRange,
		&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Do()

	return err
}
