package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeRejected Outcome = "rejected"
)

// Reconciler decide insert vs update pelo email, sempre no escopo do usuário.
// Lookup e escrita são dois statements: dois imports simultâneos do mesmo
// email para o mesmo usuário podem os dois inserir.
type Reconciler struct {
	Repo entity.LeadRepositoryInterface
	Now  func() time.Time
}

func NewReconciler(repo entity.LeadRepositoryInterface) *Reconciler {
	return &Reconciler{
		Repo: repo,
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, userID string, fields entity.LeadFields) (Outcome, *entity.Lead, error) {
	if fields.Email != nil {
		existing, err := r.Repo.FindByEmail(ctx, userID, *fields.Email)
		switch {
		case err == nil:
			return r.update(ctx, existing, fields)
		case !errors.Is(err, entity.ErrLeadNotFound):
			return "", nil, &PersistenceError{Op: "lookup lead by email", Err: err}
		}
	}
	return r.insert(ctx, userID, fields)
}

func (r *Reconciler) insert(ctx context.Context, userID string, fields entity.LeadFields) (Outcome, *entity.Lead, error) {
	lead := entity.NewLead(userID, fields)
	now := r.Now()
	lead.CreatedAt, lead.UpdatedAt = now, now
	if err := r.Repo.Create(ctx, lead); err != nil {
		return "", nil, &PersistenceError{Op: "insert lead", Err: err}
	}
	return OutcomeInserted, lead, nil
}

func (r *Reconciler) update(ctx context.Context, lead *entity.Lead, fields entity.LeadFields) (Outcome, *entity.Lead, error) {
	lead.Apply(fields)
	lead.UpdatedAt = r.Now()
	if err := r.Repo.Update(ctx, lead); err != nil {
		return "", nil, &PersistenceError{Op: "update lead", Err: err}
	}
	return OutcomeUpdated, lead, nil
}
