package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wellness-booking-api/internal/dto"
	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
	"github.com/noah-isme/wellness-booking-api/pkg/export"
)

// ExportFormat enumerates supported month export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatICS ExportFormat = "ics"
)

const openAvailabilitySummary = "Open availability"

type monthCatalog interface {
	MonthWithCatalog(ctx context.Context, req dto.MonthCalendarRequest) ([]models.ResolvedSlot, *models.AvailabilitySnapshot, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Location *time.Location
}

// ExportResult is a rendered file ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders resolved months as downloadable files.
type ExportService struct {
	calendar monthCatalog
	csv      csvRenderer
	pdf      pdfRenderer
	ics      icsRenderer
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(calendar monthCatalog, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter("")
	}
	return &ExportService{calendar: calendar, csv: csv, pdf: pdf, ics: ics, logger: logger, cfg: cfg}
}

// ExportMonth renders the month in the requested format.
func (s *ExportService) ExportMonth(ctx context.Context, req dto.MonthCalendarRequest, format ExportFormat) (*ExportResult, error) {
	switch format {
	case ExportFormatCSV, ExportFormatPDF, ExportFormatICS:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, ics")
	}

	slots, snapshot, err := s.calendar.MonthWithCatalog(ctx, req)
	if err != nil {
		return nil, err
	}
	names := newCatalogNames(snapshot)
	period := fmt.Sprintf("%04d-%02d", req.Year, req.Month)
	filename := fmt.Sprintf("availability_%s.%s", period, format)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		contentType = "text/csv"
		payload, err = s.csv.Render(slotDataset(slots, names))
	case ExportFormatPDF:
		contentType = "application/pdf"
		subtitle := fmt.Sprintf("%d slots, %d team members", len(slots), len(snapshot.TeamMembers))
		payload, err = s.pdf.Render(slotDataset(slots, names), "Availability "+period, subtitle)
	case ExportFormatICS:
		contentType = "text/calendar"
		payload, err = s.renderICS("Availability "+period, slots, names)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("month exported",
		zap.String("period", period),
		zap.String("format", string(format)),
		zap.Int("slots", len(slots)),
	)
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func (s *ExportService) renderICS(name string, slots []models.ResolvedSlot, names catalogNames) ([]byte, error) {
	events := make([]export.CalendarEvent, 0, len(slots))
	for _, slot := range slots {
		start, err := slot.Start.On(slot.Date, s.cfg.Location)
		if err != nil {
			return nil, err
		}
		end, err := slot.End.On(slot.Date, s.cfg.Location)
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			s.logger.Warn("skipping slot without positive duration",
				zap.String("date", slot.Date),
				zap.String("instructor_id", slot.InstructorID),
			)
			continue
		}
		event := export.CalendarEvent{
			UID:         slotUID(slot),
			Summary:     names.template(slot.TemplateID),
			Description: names.instructor(slot.InstructorID),
			Start:       start,
			End:         end,
		}
		if slot.LocationID != nil {
			event.Location = *slot.LocationID
		}
		events = append(events, event)
	}
	return s.ics.Render(name, events)
}

func slotDataset(slots []models.ResolvedSlot, names catalogNames) export.Dataset {
	headers := []string{"Date", "Start", "End", "Instructor", "Service", "Source"}
	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, map[string]string{
			"Date":       slot.Date,
			"Start":      slot.Start.String(),
			"End":        slot.End.String(),
			"Instructor": names.instructor(slot.InstructorID),
			"Service":    names.template(slot.TemplateID),
			"Source":     string(slot.Source),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// slotUID is stable across exports so calendar clients update events in place.
func slotUID(slot models.ResolvedSlot) string {
	parts := []string{slot.Date, slot.Start.String(), slot.End.String(), slot.InstructorID, deref(slot.TemplateID), string(slot.Source), deref(slot.ExceptionID)}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16]) + "@wellness-booking"
}

type catalogNames struct {
	templates   map[string]string
	instructors map[string]string
}

func newCatalogNames(snapshot *models.AvailabilitySnapshot) catalogNames {
	names := catalogNames{templates: map[string]string{}, instructors: map[string]string{}}
	if snapshot == nil {
		return names
	}
	for _, t := range snapshot.Templates {
		names.templates[t.ID] = t.Name
	}
	for _, p := range snapshot.TeamMembers {
		names.instructors[p.ID] = p.DisplayName()
	}
	return names
}

func (n catalogNames) template(id *string) string {
	if id == nil {
		return openAvailabilitySummary
	}
	if name, ok := n.templates[*id]; ok && name != "" {
		return name
	}
	return openAvailabilitySummary
}

func (n catalogNames) instructor(id string) string {
	if name, ok := n.instructors[id]; ok && name != "" {
		return name
	}
	return id
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
