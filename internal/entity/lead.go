package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// Estágios do pipeline (kanban), sempre minúsculos no banco
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusPending   = "pending"
	StatusLost      = "lost"
)

// LeadStatuses mantém a ordem das colunas do kanban.
var LeadStatuses = []string{StatusNew, StatusContacted, StatusQualified, StatusPending, StatusLost}

func IsValidStatus(s string) bool {
	for _, st := range LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// NormalizeStatus lowercases the stage and falls back to the initial one.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StatusNew
	}
	return s
}

type Lead struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Source    *string   `json:"source"`
	Notes     *string   `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadFields são os campos mutáveis de um lead já validados.
// Ponteiro nil = campo ausente (não sobrescreve no update).
type LeadFields struct {
	Name    string
	Email   *string
	Phone   *string
	Company *string
	Source  *string
	Notes   *string
	Status  string
}

// NewLead builds an owned lead from validated fields.
func NewLead(userID string, f LeadFields) *Lead {
	now := time.Now().UTC()
	l := &Lead{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Apply(f)
	return l
}

// Apply overwrites the lead with the supplied fields. Absent optional fields
// keep their current value.
func (l *Lead) Apply(f LeadFields) {
	l.Name = f.Name
	l.Status = NormalizeStatus(f.Status)
	if f.Email != nil {
		l.Email = f.Email
	}
	if f.Phone != nil {
		l.Phone = f.Phone
	}
	if f.Company != nil {
		l.Company = f.Company
	}
	if f.Source != nil {
		l.Source = f.Source
	}
	if f.Notes != nil {
		l.Notes = f.Notes
	}
}

// LeadPatch is a partial update coming from the edit form or a kanban move.
type LeadPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Company *string
	Source  *string
	Notes   *string
	Status  *string
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil &&
		p.Source == nil && p.Notes == nil && p.Status == nil
}

func (l *Lead) ApplyPatch(p LeadPatch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = blankToNil(p.Email)
	}
	if p.Phone != nil {
		l.Phone = blankToNil(p.Phone)
	}
	if p.Company != nil {
		l.Company = blankToNil(p.Company)
	}
	if p.Source != nil {
		l.Source = blankToNil(p.Source)
	}
	if p.Notes != nil {
		l.Notes = blankToNil(p.Notes)
	}
	if p.Status != nil {
		l.Status = NormalizeStatus(*p.Status)
	}
	l.UpdatedAt = time.Now().UTC()
}

type LeadFilter struct {
	Query  string
	Status string
	Source string
	From   *time.Time
	To     *time.Time
}

// LeadRepositoryInterface: toda consulta é escopada pelo userID.
type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, userID, id string) (*Lead, error)
	FindByEmail(ctx context.Context, userID, email string) (*Lead, error)
	List(ctx context.Context, userID string, filter LeadFilter) ([]*Lead, error)
	Delete(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// blankToNil: no patch, "" significa limpar o campo.
func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
