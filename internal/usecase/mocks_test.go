package usecase_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, userID, email string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockLeadRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockInteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(ctx context.Context, i *entity.Interaction) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListByLead(ctx context.Context, userID, leadID string) ([]*entity.Interaction, error) {
	args := m.Called(ctx, userID, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Interaction), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishImportCompleted(ctx context.Context, payload queue.ImportCompletedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, payload queue.StatusChangedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockReportStore
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Save(ctx context.Context, userID string, report entity.ImportReport) error {
	args := m.Called(ctx, userID, report)
	return args.Error(0)
}

func (m *MockReportStore) Last(ctx context.Context, userID string) (*entity.ImportReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ImportReport), args.Error(1)
}

// stubParser devolve linhas prontas, sem ler o arquivo.
type stubParser struct {
	rows []entity.ImportRow
	err  error
}

func (p stubParser) Parse(filename string, r io.Reader) ([]entity.ImportRow, error) {
	return p.rows, p.err
}

type recorderSpy struct {
	reports []entity.ImportReport
}

func (r *recorderSpy) RecordImport(report entity.ImportReport) {
	r.reports = append(r.reports, report)
}

func strPtr(s string) *string {
	return &s
}

func row(index int, pairs ...string) entity.ImportRow {
	r := entity.ImportRow{Index: index}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Cells = append(r.Cells, entity.Cell{Header: pairs[i], Value: pairs[i+1]})
	}
	return r
}

// memLeadRepo guarda os leads em memória, na ordem de criação, para os
// testes que dependem do que linhas anteriores gravaram.
type memLeadRepo struct {
	leads []*entity.Lead
}

func (r *memLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	r.leads = append(r.leads, lead)
	return nil
}

func (r *memLeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	for i, l := range r.leads {
		if l.ID == lead.ID && l.UserID == lead.UserID {
			r.leads[i] = lead
			return nil
		}
	}
	return entity.ErrLeadNotFound
}

func (r *memLeadRepo) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	for _, l := range r.leads {
		if l.ID == id && l.UserID == userID {
			return l, nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (r *memLeadRepo) FindByEmail(ctx context.Context, userID, email string) (*entity.Lead, error) {
	for _, l := range r.leads {
		if l.UserID == userID && l.Email != nil && *l.Email == email {
			return l, nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (r *memLeadRepo) List(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var out []*entity.Lead
	for i := len(r.leads) - 1; i >= 0; i-- {
		if r.leads[i].UserID == userID {
			out = append(out, r.leads[i])
		}
	}
	return out, nil
}

func (r *memLeadRepo) Delete(ctx context.Context, userID, id string) error {
	for i, l := range r.leads {
		if l.ID == id && l.UserID == userID {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return nil
		}
	}
	return entity.ErrLeadNotFound
}

func (r *memLeadRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, l := range r.leads {
		counts[l.Status]++
	}
	return counts, nil
}
