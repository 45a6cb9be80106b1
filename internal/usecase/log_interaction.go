package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type InteractionUseCase struct {
	LeadRepo        entity.LeadRepositoryInterface
	InteractionRepo entity.InteractionRepositoryInterface
}

func NewInteractionUseCase(leadRepo entity.LeadRepositoryInterface, interactionRepo entity.InteractionRepositoryInterface) *InteractionUseCase {
	return &InteractionUseCase{LeadRepo: leadRepo, InteractionRepo: interactionRepo}
}

// ensureOwnership: o lead precisa pertencer ao usuário antes de tudo.
func (uc *InteractionUseCase) ensureOwnership(ctx context.Context, p Principal, leadID string) error {
	if p.UserID == "" {
		return &AuthenticationError{Reason: "no authenticated user"}
	}
	if _, err := uc.LeadRepo.FindByID(ctx, p.UserID, leadID); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return err
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load lead: " + err.Error()}
	}
	return nil
}

func (uc *InteractionUseCase) Log(ctx context.Context, p Principal, leadID string, input InteractionInput) (*entity.Interaction, error) {
	if err := uc.ensureOwnership(ctx, p, leadID); err != nil {
		return nil, err
	}

	kind, content, occurredAt, err := ValidateInteractionInput(input)
	if err != nil {
		return nil, err
	}

	interaction := entity.NewInteraction(p.UserID, leadID, kind, content, occurredAt)
	if err := uc.InteractionRepo.Create(ctx, interaction); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to log interaction: " + err.Error()}
	}
	return interaction, nil
}

// List devolve as interações mais recentes primeiro.
func (uc *InteractionUseCase) List(ctx context.Context, p Principal, leadID string) ([]*entity.Interaction, error) {
	if err := uc.ensureOwnership(ctx, p, leadID); err != nil {
		return nil, err
	}
	items, err := uc.InteractionRepo.ListByLead(ctx, p.UserID, leadID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list interactions: " + err.Error()}
	}
	if items == nil {
		items = []*entity.Interaction{}
	}
	return items, nil
}
