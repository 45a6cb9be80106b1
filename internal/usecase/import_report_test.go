package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ============ TESTES DO REPORT BUILDER ============

func TestReportBuilderCountsEveryOutcome(t *testing.T) {
	b := usecase.NewReportBuilder()
	b.Record(usecase.OutcomeInserted)
	b.Record(usecase.OutcomeInserted)
	b.Record(usecase.OutcomeUpdated)
	b.Record(usecase.OutcomeSkipped)
	b.Reject(row(5, "Name", "", "Email", "x"), errors.New("name is required"))

	report := b.Build()

	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 5, report.Total())
	assert.Len(t, report.Errors, report.Rejected)
	assert.Equal(t, 5, report.Errors[0].Row)
	assert.Equal(t, "x", report.Errors[0].Data["Email"])
	assert.Equal(t, "name is required", report.Errors[0].Error)
}

func TestReportBuilderEmptyReportHasNonNilErrors(t *testing.T) {
	report := usecase.NewReportBuilder().Build()
	assert.NotNil(t, report.Errors)
	assert.Zero(t, report.Total())
}
