package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const keyPrefix = "crm:import:last:"

// ImportReportStore guarda no Redis o último relatório de importação de cada usuário.
type ImportReportStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewImportReportStore(client *redis.Client, ttl time.Duration) *ImportReportStore {
	return &ImportReportStore{Client: client, TTL: ttl}
}

func reportKey(userID string) string {
	return keyPrefix + userID
}

func (s *ImportReportStore) Save(ctx context.Context, userID string, report entity.ImportReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := s.Client.Set(ctx, reportKey(userID), body, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Last devolve nil, nil quando não há relatório (ou ele expirou).
func (s *ImportReportStore) Last(ctx context.Context, userID string) (*entity.ImportReport, error) {
	body, err := s.Client.Get(ctx, reportKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var report entity.ImportReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *ImportReportStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
