package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
	Log  *logrus.Logger
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, log *logrus.Logger) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo, Log: log}
}

// Execute valida com as mesmas regras do import e sempre insere (sem dedup).
func (uc *CreateLeadUseCase) Execute(ctx context.Context, p Principal, input LeadInput) (*entity.Lead, error) {
	if p.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}

	fields, err := ValidateLeadInput(input)
	if err != nil {
		return nil, err
	}

	lead := entity.NewLead(p.UserID, fields)
	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to create lead: " + err.Error(),
		}
	}

	uc.Log.WithFields(logrus.Fields{"user_id": p.UserID, "lead_id": lead.ID}).Info("lead criado")
	return lead, nil
}
