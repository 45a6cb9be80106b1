package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Create(ctx context.Context, i *entity.Interaction) error {
	query := `
		INSERT INTO interactions (id, lead_id, user_id, type, content, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		i.ID,
		i.LeadID,
		i.UserID,
		i.Type,
		i.Content,
		i.OccurredAt,
		i.CreatedAt,
	)
	if err != nil {
		// lead apagado entre a checagem de dono e o insert
		if isForeignKeyViolation(err) {
			return entity.ErrLeadNotFound
		}
		return err
	}
	return nil
}

func (r *InteractionRepository) ListByLead(ctx context.Context, userID, leadID string) ([]*entity.Interaction, error) {
	query := `
		SELECT id, lead_id, user_id, type, content, occurred_at, created_at
		FROM interactions
		WHERE lead_id = $1 AND user_id = $2
		ORDER BY occurred_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Interaction, 0)
	for rows.Next() {
		var i entity.Interaction
		if err := rows.Scan(&i.ID, &i.LeadID, &i.UserID, &i.Type, &i.Content, &i.OccurredAt, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}
