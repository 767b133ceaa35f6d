package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/export"
)

type rosterReader interface {
	FindByID(ctx context.Context, id string) (*models.BatchDetail, error)
	Roster(ctx context.Context, batchID string) ([]models.StudentDetail, error)
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders batch rosters as CSV or PDF downloads.
type ExportService struct {
	batches rosterReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(batches rosterReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		batches: batches,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

var rosterHeaders = []string{"Username", "Name", "Surname", "Email", "Grade"}

// BatchRoster renders the enrolled students of a batch in the requested
// format ("csv" or "pdf").
func (s *ExportService) BatchRoster(ctx context.Context, batchID, format string) (*ExportFile, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	students, err := s.batches.Roster(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch roster")
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(students))}
	for _, student := range students {
		row := map[string]string{
			"Username": student.Username,
			"Name":     student.Name,
			"Surname":  student.Surname,
		}
		if student.Email != nil {
			row["Email"] = *student.Email
		}
		if student.GradeLevel != nil {
			row["Grade"] = *student.GradeLevel
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv roster")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("%s-roster.csv", batch.Name),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, fmt.Sprintf("%s roster", batch.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf roster")
		}
		return &ExportFile{
			FileName:    fmt.Sprintf("%s-roster.pdf", batch.Name),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
