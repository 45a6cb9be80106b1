package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/spreadsheet"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newTestLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func importInput(filename string) usecase.ImportLeadsInput {
	return usecase.ImportLeadsInput{
		Principal: usecase.Principal{UserID: "user-1", Email: "dona@x.com"},
		Filename:  filename,
		File:      strings.NewReader(""),
	}
}

// ============ TESTES DO IMPORT ============

// TestImportMixedBatch - linha 3 repete o email da linha 2 e enxerga o insert dela
func TestImportMixedBatch(t *testing.T) {
	repo := &memLeadRepo{}
	parser := stubParser{rows: []entity.ImportRow{
		row(1, "name", "", "email", "x@x.com"),
		row(2, "name", "A", "email", "a@x.com", "status", "new"),
		row(3, "name", "A Souza", "email", "a@x.com", "status", "contacted"),
	}}

	uc := usecase.NewImportLeadsUseCase(parser, repo, nil, nil, nil, newTestLogger())
	report, err := uc.Execute(context.Background(), importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Error, "name")
	assert.Equal(t, "x@x.com", report.Errors[0].Data["email"])

	require.Len(t, repo.leads, 1)
	assert.Equal(t, "A Souza", repo.leads[0].Name)
	assert.Equal(t, "contacted", repo.leads[0].Status)
}

// TestImportUpdatesExistingLeadKeepingID - email já cadastrado vira update com o mesmo id
func TestImportUpdatesExistingLeadKeepingID(t *testing.T) {
	repo := new(MockLeadRepository)
	existing := &entity.Lead{ID: "lead-b", UserID: "user-1", Name: "B", Email: strPtr("b@x.com"), Status: "new"}
	repo.On("FindByEmail", mock.Anything, "user-1", "b@x.com").Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	parser := stubParser{rows: []entity.ImportRow{row(1, "name", "Bruna", "email", "b@x.com")}}
	uc := usecase.NewImportLeadsUseCase(parser, repo, nil, nil, nil, newTestLogger())

	report, err := uc.Execute(context.Background(), importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, "lead-b", existing.ID)
	assert.Equal(t, "Bruna", existing.Name)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestExportThenImportIsNoOp - exportar em CSV e reimportar não muda nada
func TestExportThenImportIsNoOp(t *testing.T) {
	repo := &memLeadRepo{}
	create := usecase.NewCreateLeadUseCase(repo, newTestLogger())
	for _, in := range []usecase.LeadInput{
		{Name: strPtr("Ana"), Email: strPtr("ana@x.com"), Phone: strPtr("11 99999-0000"), Company: strPtr("Acme"), Status: strPtr("contacted")},
		{Name: strPtr("=HYPERLINK(1)"), Email: strPtr("bia@x.com"), Notes: strPtr("ligar, depois \"tarde\"")},
		{Name: strPtr("Caio"), Email: strPtr("caio@x.com"), Source: strPtr("site"), Status: strPtr("lost")},
	} {
		_, err := create.Execute(context.Background(), owner, in)
		require.NoError(t, err)
	}
	before := snapshotLeads(repo.leads)

	rows, err := usecase.NewExportLeadsUseCase(usecase.NewLeadQueryUseCase(repo)).CSVRows(context.Background(), owner, usecase.LeadFilterInput{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteCSV(&buf, rows))

	uc := usecase.NewImportLeadsUseCase(spreadsheet.NewParser(), repo, nil, nil, nil, newTestLogger())
	report, err := uc.Execute(context.Background(), usecase.ImportLeadsInput{
		Principal: owner,
		Filename:  "leads-export.csv",
		File:      &buf,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 0, report.Inserted+report.Skipped+report.Rejected)
	assert.Empty(t, report.Errors)
	assert.Len(t, repo.leads, 3)
	assert.Equal(t, before, snapshotLeads(repo.leads))
}

// snapshotLeads copia os campos visíveis, sem updated_at.
func snapshotLeads(leads []*entity.Lead) []map[string]string {
	out := make([]map[string]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, map[string]string{
			"id":      l.ID,
			"name":    l.Name,
			"email":   entity.StringValue(l.Email),
			"phone":   entity.StringValue(l.Phone),
			"company": entity.StringValue(l.Company),
			"source":  entity.StringValue(l.Source),
			"notes":   entity.StringValue(l.Notes),
			"status":  l.Status,
		})
	}
	return out
}

func TestImportRowsWithoutEmailAlwaysInsert(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	parser := stubParser{rows: []entity.ImportRow{row(1, "Name", "Ana"), row(2, "Name", "Ana")}}
	uc := usecase.NewImportLeadsUseCase(parser, repo, nil, nil, nil, newTestLogger())

	report, err := uc.Execute(context.Background(), importInput("LEADS.XLSX"))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	repo.AssertNumberOfCalls(t, "Create", 2)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportBlankRowsAreSkipped(t *testing.T) {
	repo := new(MockLeadRepository)
	parser := stubParser{rows: []entity.ImportRow{
		row(1, "name", "  ", "email", ""),
		row(2, "Cidade", "SP"),
	}}

	uc := usecase.NewImportLeadsUseCase(parser, repo, nil, nil, nil, newTestLogger())
	report, err := uc.Execute(context.Background(), importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Total())
	assert.Empty(t, report.Errors)
}

func TestImportPersistenceFailureRejectsOnlyThatRow(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool { return l.Name == "Quebra" })).Return(errors.New("boom")).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	parser := stubParser{rows: []entity.ImportRow{
		row(1, "name", "Quebra"),
		row(2, "name", "Ok"),
	}}

	uc := usecase.NewImportLeadsUseCase(parser, repo, nil, nil, nil, newTestLogger())
	report, err := uc.Execute(context.Background(), importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Error, "boom")
}

func TestImportRejectsUnsupportedFormat(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewImportLeadsUseCase(stubParser{}, repo, nil, nil, nil, newTestLogger())

	report, err := uc.Execute(context.Background(), importInput("leads.pdf"))

	assert.Nil(t, report)
	var ferr *usecase.UnsupportedFormatError
	require.True(t, errors.As(err, &ferr))
	assert.Contains(t, err.Error(), "Please use CSV or XLSX")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportRequiresAuthenticatedUser(t *testing.T) {
	uc := usecase.NewImportLeadsUseCase(stubParser{}, new(MockLeadRepository), nil, nil, nil, newTestLogger())

	in := importInput("leads.csv")
	in.Principal = usecase.Principal{}
	_, err := uc.Execute(context.Background(), in)

	var aerr *usecase.AuthenticationError
	assert.True(t, errors.As(err, &aerr))
}

func TestImportUnreadableFile(t *testing.T) {
	uc := usecase.NewImportLeadsUseCase(stubParser{err: errors.New("bad zip")}, new(MockLeadRepository), nil, nil, nil, newTestLogger())

	_, err := uc.Execute(context.Background(), importInput("leads.xlsx"))

	var derr *usecase.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "UNREADABLE_FILE", derr.Code)
}

// TestImportSideEffectsAreBestEffort - cache e fila falhando não derrubam o import
func TestImportSideEffectsAreBestEffort(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	store := new(MockReportStore)
	store.On("Save", mock.Anything, "user-1", mock.AnythingOfType("entity.ImportReport")).Return(errors.New("redis down"))

	pub := new(MockPublisher)
	pub.On("PublishImportCompleted", mock.Anything, mock.MatchedBy(func(p queue.ImportCompletedPayload) bool {
		return p.UserID == "user-1" && p.UserEmail == "dona@x.com" && p.Filename == "leads.csv" && p.Inserted == 1
	})).Return(errors.New("amqp closed"))

	spy := &recorderSpy{}
	uc := usecase.NewImportLeadsUseCase(stubParser{rows: []entity.ImportRow{row(1, "name", "Ana")}}, repo, store, pub, spy, newTestLogger())

	report, err := uc.Execute(context.Background(), importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, spy.reports, 1)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestImportKeepsGoingAfterClientCancels(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := usecase.NewImportLeadsUseCase(stubParser{rows: []entity.ImportRow{row(1, "name", "A"), row(2, "name", "B")}}, repo, nil, nil, nil, newTestLogger())
	report, err := uc.Execute(ctx, importInput("leads.csv"))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
}

func TestLastReport(t *testing.T) {
	store := new(MockReportStore)
	saved := &entity.ImportReport{Inserted: 3, Errors: []entity.RowError{}}
	store.On("Last", mock.Anything, "user-1").Return(saved, nil).Once()
	store.On("Last", mock.Anything, "user-2").Return(nil, nil).Once()

	uc := usecase.NewImportLeadsUseCase(stubParser{}, new(MockLeadRepository), store, nil, nil, newTestLogger())

	got, err := uc.LastReport(context.Background(), usecase.Principal{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Inserted)

	_, err = uc.LastReport(context.Background(), usecase.Principal{UserID: "user-2"})
	var derr *usecase.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "REPORT_NOT_FOUND", derr.Code)
}
