package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, user_id, name, email, phone, company, source, notes, status, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.Name,
		l.Email,
		l.Phone,
		l.Company,
		l.Source,
		l.Notes,
		entity.NormalizeStatus(l.Status),
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("status %q rejeitado pelo banco: %w", l.Status, err)
		}
		return err
	}
	return nil
}

// Update grava todos os campos mutáveis. id, user_id e created_at não mudam.
func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, company = $4, source = $5,
		    notes = $6, status = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`
	res, err := r.DB.ExecContext(ctx, query,
		l.Name,
		l.Email,
		l.Phone,
		l.Company,
		l.Source,
		l.Notes,
		entity.NormalizeStatus(l.Status),
		l.UpdatedAt,
		l.ID,
		l.UserID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("status %q rejeitado pelo banco: %w", l.Status, err)
		}
		return err
	}
	return requireAffected(res)
}

func (r *LeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`
	return scanLead(r.DB.QueryRowContext(ctx, query, id, userID))
}

// FindByEmail usa a comparação exata. Com duplicatas (criadas pelo formulário),
// o lead mais antigo é o escolhido.
func (r *LeadRepository) FindByEmail(ctx context.Context, userID, email string) (*entity.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE user_id = $1 AND email = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanLead(r.DB.QueryRowContext(ctx, query, userID, email))
}

func (r *LeadRepository) List(ctx context.Context, userID string, f entity.LeadFilter) ([]*entity.Lead, error) {
	query, args := buildListQuery(userID, f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func buildListQuery(userID string, f entity.LeadFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1`)
	args := []any{userID}

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Query != "" {
		sb.WriteString(` AND name ILIKE ` + next("%"+f.Query+"%"))
	}
	if f.Status != "" {
		sb.WriteString(` AND status = ` + next(f.Status))
	}
	if f.Source != "" {
		sb.WriteString(` AND source = ` + next(f.Source))
	}
	if f.From != nil {
		sb.WriteString(` AND created_at >= ` + next(*f.From))
	}
	if f.To != nil {
		sb.WriteString(` AND created_at <= ` + next(*f.To))
	}
	sb.WriteString(` ORDER BY created_at DESC`)
	return sb.String(), args
}

func (r *LeadRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CountByStatus agrega todos os usuários (alimenta o gauge do pipeline).
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(entity.LeadStatuses))
	for _, s := range entity.LeadStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var email, phone, company, source, notes sql.NullString
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&email,
		&phone,
		&company,
		&source,
		&notes,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	l.Email = nullToPtr(email)
	l.Phone = nullToPtr(phone)
	l.Company = nullToPtr(company)
	l.Source = nullToPtr(source)
	l.Notes = nullToPtr(notes)
	return &l, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
