package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// UpdateLeadUseCase serve o formulário de edição e o drag do kanban (PUT só
// com status).
type UpdateLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher EventPublisher
	Log       *logrus.Logger
}

func NewUpdateLeadUseCase(repo entity.LeadRepositoryInterface, publisher EventPublisher, log *logrus.Logger) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo, Publisher: publisher, Log: log}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, p Principal, leadID string, input LeadInput) (*entity.Lead, error) {
	if p.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}

	patch, err := ValidateLeadPatch(input)
	if err != nil {
		return nil, err
	}

	lead, err := uc.Repo.FindByID(ctx, p.UserID, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load lead: " + err.Error()}
	}
	if patch.IsEmpty() {
		return lead, nil
	}

	previous := lead.Status
	lead.ApplyPatch(patch)
	if err := uc.Repo.Update(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to update lead: " + err.Error()}
	}

	if lead.Status != previous {
		uc.publishStatusChange(ctx, lead, previous)
	}
	return lead, nil
}

func (uc *UpdateLeadUseCase) publishStatusChange(ctx context.Context, lead *entity.Lead, from string) {
	log := uc.Log.WithFields(logrus.Fields{
		"user_id": lead.UserID,
		"lead_id": lead.ID,
		"from":    from,
		"to":      lead.Status,
	})
	log.Info("🔄 lead mudou de coluna")

	if uc.Publisher == nil {
		return
	}
	payload := queue.StatusChangedPayload{
		LeadID: lead.ID,
		UserID: lead.UserID,
		From:   from,
		To:     lead.Status,
	}
	if err := uc.Publisher.PublishStatusChanged(ctx, payload); err != nil {
		log.WithError(err).Warn("⚠️ status salvo no banco, mas falha na fila")
	}
}
