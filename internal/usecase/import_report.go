package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

// ReportBuilder accumulates one outcome per row. It never fails and is only
// read once the whole batch has been processed.
type ReportBuilder struct {
	report entity.ImportReport
}

func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{report: entity.ImportReport{Errors: []entity.RowError{}}}
}

func (b *ReportBuilder) Record(outcome Outcome) {
	switch outcome {
	case OutcomeInserted:
		b.report.Inserted++
	case OutcomeUpdated:
		b.report.Updated++
	case OutcomeSkipped:
		b.report.Skipped++
	}
}

// Reject conta a linha como rejeitada e guarda o dado bruto original.
func (b *ReportBuilder) Reject(row entity.ImportRow, err error) {
	b.report.Rejected++
	msg := "Validation failed"
	if err != nil {
		msg = err.Error()
	}
	b.report.Errors = append(b.report.Errors, entity.RowError{
		Row:   row.Index,
		Data:  row.Data(),
		Error: msg,
	})
}

func (b *ReportBuilder) Build() entity.ImportReport {
	out := b.report
	out.Errors = append([]entity.RowError{}, b.report.Errors...)
	return out
}
