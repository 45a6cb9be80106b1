package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Cabeçalhos do CSV batem com o Column Mapper, então o arquivo reimporta limpo.
var CSVExportHeader = []string{"name", "email", "phone", "company", "status", "source", "notes"}

var XLSXExportHeader = []string{"Name", "Email", "Phone", "Company", "Status", "Source", "Created At"}

type ExportLeadsUseCase struct {
	Queries *LeadQueryUseCase
}

func NewExportLeadsUseCase(queries *LeadQueryUseCase) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Queries: queries}
}

// CSVRows returns header plus one sanitized row per lead matching the filter.
func (uc *ExportLeadsUseCase) CSVRows(ctx context.Context, p Principal, in LeadFilterInput) ([][]string, error) {
	leads, err := uc.Queries.List(ctx, p, in)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(leads)+1)
	rows = append(rows, CSVExportHeader)
	for _, l := range leads {
		rows = append(rows, []string{
			SanitizeCellValue(l.Name),
			SanitizeCellValue(entity.StringValue(l.Email)),
			SanitizeCellValue(entity.StringValue(l.Phone)),
			SanitizeCellValue(entity.StringValue(l.Company)),
			l.Status,
			SanitizeCellValue(entity.StringValue(l.Source)),
			SanitizeCellValue(entity.StringValue(l.Notes)),
		})
	}
	return rows, nil
}

func (uc *ExportLeadsUseCase) XLSXRows(ctx context.Context, p Principal, in LeadFilterInput) ([][]string, error) {
	leads, err := uc.Queries.List(ctx, p, in)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(leads)+1)
	rows = append(rows, XLSXExportHeader)
	for _, l := range leads {
		rows = append(rows, []string{
			SanitizeCellValue(l.Name),
			SanitizeCellValue(entity.StringValue(l.Email)),
			SanitizeCellValue(entity.StringValue(l.Phone)),
			SanitizeCellValue(entity.StringValue(l.Company)),
			l.Status,
			SanitizeCellValue(entity.StringValue(l.Source)),
			l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}

func ExportFilename(ext string, now time.Time) string {
	return "leads-export-" + now.UTC().Format("2006-01-02") + "." + ext
}
