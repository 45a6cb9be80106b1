package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ============ TESTES DA RECONCILIAÇÃO ============

func TestReconcileWithoutEmailAlwaysInserts(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	r := usecase.NewReconciler(repo)
	outcome, lead, err := r.Reconcile(context.Background(), "user-1", entity.LeadFields{Name: "Ana", Status: "new"})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeInserted, outcome)
	assert.Equal(t, "user-1", lead.UserID)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileUpdatesExistingLeadKeepingID(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	existing := &entity.Lead{
		ID:        "lead-1",
		UserID:    "user-1",
		Name:      "Ana Antiga",
		Email:     strPtr("ana@x.com"),
		Phone:     strPtr("1111"),
		Status:    "contacted",
		CreatedAt: created,
		UpdatedAt: created,
	}
	repo := new(MockLeadRepository)
	repo.On("FindByEmail", mock.Anything, "user-1", "ana@x.com").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	r := usecase.NewReconciler(repo)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	r.Now = func() time.Time { return now }

	outcome, lead, err := r.Reconcile(context.Background(), "user-1", entity.LeadFields{
		Name:    "Ana Nova",
		Email:   strPtr("ana@x.com"),
		Company: strPtr("Acme"),
		Status:  "qualified",
	})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeUpdated, outcome)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, created, lead.CreatedAt)
	assert.Equal(t, now, lead.UpdatedAt)
	assert.Equal(t, "Ana Nova", lead.Name)
	assert.Equal(t, "Acme", *lead.Company)
	// campo ausente no arquivo mantém o valor salvo
	assert.Equal(t, "1111", *lead.Phone)
	assert.Equal(t, "qualified", lead.Status)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconcileInsertsWhenEmailNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByEmail", mock.Anything, "user-1", "novo@x.com").Return(nil, entity.ErrLeadNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	outcome, lead, err := usecase.NewReconciler(repo).Reconcile(context.Background(), "user-1", entity.LeadFields{
		Name:   "Novo",
		Email:  strPtr("novo@x.com"),
		Status: "",
	})

	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeInserted, outcome)
	assert.Equal(t, entity.StatusNew, lead.Status)
}

func TestReconcileLookupFailureIsPersistenceError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByEmail", mock.Anything, "user-1", "a@x.com").Return(nil, errors.New("connection reset"))

	_, _, err := usecase.NewReconciler(repo).Reconcile(context.Background(), "user-1", entity.LeadFields{Name: "A", Email: strPtr("a@x.com")})

	var perr *usecase.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReconcileInsertFailureIsPersistenceError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, _, err := usecase.NewReconciler(repo).Reconcile(context.Background(), "user-1", entity.LeadFields{Name: "A"})

	var perr *usecase.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "insert lead", perr.Op)
}
