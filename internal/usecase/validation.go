package usecase

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var validate = validator.New()

var statusRule = "oneof=" + strings.Join(entity.LeadStatuses, " ")

// LeadInput is the raw lead as it arrives from the form or an import row.
// nil means the field was not sent at all.
type LeadInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Source  *string `json:"source"`
	Notes   *string `json:"notes"`
	Status  *string `json:"status"`
}

// LeadInputFromMap builds the input from a column-mapped import row.
func LeadInputFromMap(m map[string]string) LeadInput {
	get := func(k string) *string {
		if v, ok := m[k]; ok {
			return &v
		}
		return nil
	}
	return LeadInput{
		Name:    get(FieldName),
		Email:   get(FieldEmail),
		Phone:   get(FieldPhone),
		Company: get(FieldCompany),
		Source:  get(FieldSource),
		Notes:   get(FieldNotes),
		Status:  get(FieldStatus),
	}
}

// cleanText trims, treats blank as absent and applies the formula sanitizer.
func cleanText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return sanitizePtr(&s)
}

// normalizePhone é igual ao texto livre: o número é guardado como veio, limpo.
func normalizePhone(v *string) *string {
	return cleanText(v)
}

func validateName(v *string) (string, *ValidationError) {
	name := cleanText(v)
	if name == nil {
		return "", &ValidationError{FieldName, "is required"}
	}
	return *name, nil
}

func validateEmail(v *string) (*string, *ValidationError) {
	email := cleanText(v)
	if email == nil {
		return nil, nil
	}
	if err := validate.Var(*email, "email"); err != nil {
		return nil, &ValidationError{FieldEmail, "is not a valid email: " + *email}
	}
	return email, nil
}

// validateStatus não faz case folding: "Contacted" é rejeitado aqui e só
// a persistência normaliza para minúsculo.
func validateStatus(v *string) (*string, *ValidationError) {
	if v == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil, nil
	}
	if err := validate.Var(s, statusRule); err != nil {
		return nil, &ValidationError{FieldStatus, "must be one of " + strings.Join(entity.LeadStatuses, ", ") + ", got " + s}
	}
	return &s, nil
}

// ValidateLeadInput is the single definition of a valid lead, shared by the
// create endpoint and the import pipeline.
func ValidateLeadInput(in LeadInput) (entity.LeadFields, error) {
	var errs ValidationErrors
	name, verr := validateName(in.Name)
	if verr != nil {
		errs = append(errs, *verr)
	}
	email, verr := validateEmail(in.Email)
	if verr != nil {
		errs = append(errs, *verr)
	}
	status, verr := validateStatus(in.Status)
	if verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		return entity.LeadFields{}, errs
	}

	fields := entity.LeadFields{
		Name:    name,
		Email:   email,
		Phone:   normalizePhone(in.Phone),
		Company: cleanText(in.Company),
		Source:  cleanText(in.Source),
		Notes:   cleanText(in.Notes),
		Status:  entity.StatusNew,
	}
	if status != nil {
		fields.Status = *status
	}
	return fields, nil
}

// ValidateLeadPatch applies the same field rules to just the supplied fields.
// A blank optional field clears it.
func ValidateLeadPatch(in LeadInput) (entity.LeadPatch, error) {
	var errs ValidationErrors
	var patch entity.LeadPatch

	if in.Name != nil {
		name, verr := validateName(in.Name)
		if verr != nil {
			errs = append(errs, *verr)
		} else {
			patch.Name = &name
		}
	}
	if in.Email != nil {
		email, verr := validateEmail(in.Email)
		if verr != nil {
			errs = append(errs, *verr)
		} else {
			patch.Email = orEmpty(email)
		}
	}
	if in.Status != nil {
		status, verr := validateStatus(in.Status)
		if verr != nil {
			errs = append(errs, *verr)
		} else if status != nil {
			patch.Status = status
		}
	}
	if len(errs) > 0 {
		return entity.LeadPatch{}, errs
	}

	if in.Phone != nil {
		patch.Phone = orEmpty(normalizePhone(in.Phone))
	}
	if in.Company != nil {
		patch.Company = orEmpty(cleanText(in.Company))
	}
	if in.Source != nil {
		patch.Source = orEmpty(cleanText(in.Source))
	}
	if in.Notes != nil {
		patch.Notes = orEmpty(cleanText(in.Notes))
	}
	return patch, nil
}

// orEmpty keeps "sent but blank" distinguishable from "not sent" in a patch.
func orEmpty(v *string) *string {
	if v == nil {
		s := ""
		return &s
	}
	return v
}

type InteractionInput struct {
	Type       string `json:"type" validate:"required,oneof=call email meeting note"`
	Content    string `json:"content" validate:"required"`
	OccurredAt string `json:"occurred_at"`
}

func ValidateInteractionInput(in InteractionInput) (kind, content string, occurredAt time.Time, err error) {
	in.Content = strings.TrimSpace(in.Content)
	in.Type = strings.TrimSpace(in.Type)

	var errs ValidationErrors
	if verr := validate.Struct(in); verr != nil {
		if fieldErrs, ok := verr.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "Type":
					errs = append(errs, ValidationError{"type", "must be one of " + strings.Join(entity.InteractionTypes, ", ")})
				case "Content":
					errs = append(errs, ValidationError{"content", "is required"})
				}
			}
		} else {
			return "", "", time.Time{}, verr
		}
	}

	if strings.TrimSpace(in.OccurredAt) != "" {
		t, ok := parseTimestamp(in.OccurredAt)
		if !ok {
			errs = append(errs, ValidationError{"occurred_at", "must be a valid ISO8601 datetime"})
		}
		occurredAt = t
	}
	if len(errs) > 0 {
		return "", "", time.Time{}, errs
	}
	return in.Type, in.Content, occurredAt, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
