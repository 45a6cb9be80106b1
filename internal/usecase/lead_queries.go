package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadQueryUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadQueryUseCase(repo entity.LeadRepositoryInterface) *LeadQueryUseCase {
	return &LeadQueryUseCase{Repo: repo}
}

// ParseLeadFilter validates the list/export query parameters. A date-only
// "to" bound includes the whole day.
func ParseLeadFilter(in LeadFilterInput) (entity.LeadFilter, error) {
	var errs ValidationErrors
	f := entity.LeadFilter{
		Query:  strings.TrimSpace(in.Query),
		Source: strings.TrimSpace(in.Source),
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		if !entity.IsValidStatus(s) {
			errs = append(errs, ValidationError{"status", "must be one of " + strings.Join(entity.LeadStatuses, ", ")})
		} else {
			f.Status = s
		}
	}
	if s := strings.TrimSpace(in.From); s != "" {
		t, ok := parseTimestamp(s)
		if !ok {
			errs = append(errs, ValidationError{"from", "must be a valid date"})
		} else {
			f.From = &t
		}
	}
	if s := strings.TrimSpace(in.To); s != "" {
		t, ok := parseTimestamp(s)
		if !ok {
			errs = append(errs, ValidationError{"to", "must be a valid date"})
		} else {
			if len(s) == len("2006-01-02") {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			f.To = &t
		}
	}
	if len(errs) > 0 {
		return entity.LeadFilter{}, errs
	}
	return f, nil
}

func (uc *LeadQueryUseCase) List(ctx context.Context, p Principal, in LeadFilterInput) ([]*entity.Lead, error) {
	if p.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}
	filter, err := ParseLeadFilter(in)
	if err != nil {
		return nil, err
	}
	leads, err := uc.Repo.List(ctx, p.UserID, filter)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to list leads: " + err.Error()}
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	return leads, nil
}

func (uc *LeadQueryUseCase) Get(ctx context.Context, p Principal, id string) (*entity.Lead, error) {
	if p.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}
	lead, err := uc.Repo.FindByID(ctx, p.UserID, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, err
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load lead: " + err.Error()}
	}
	return lead, nil
}

// Delete remove o lead; as interações caem junto (ON DELETE CASCADE).
func (uc *LeadQueryUseCase) Delete(ctx context.Context, p Principal, id string) error {
	if p.UserID == "" {
		return &AuthenticationError{Reason: "no authenticated user"}
	}
	if err := uc.Repo.Delete(ctx, p.UserID, id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return err
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to delete lead: " + err.Error()}
	}
	return nil
}
