package usecase

import (
	"context"
	"io"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

type InteractionRepositoryInterface = entity.InteractionRepositoryInterface

// TabularParser turns an uploaded file into ordered header-keyed rows.
type TabularParser interface {
	Parse(filename string, r io.Reader) ([]entity.ImportRow, error)
}

type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, payload queue.ImportCompletedPayload) error
	PublishStatusChanged(ctx context.Context, payload queue.StatusChangedPayload) error
}

// ImportReportStore guarda o último relatório de importação por usuário.
type ImportReportStore interface {
	Save(ctx context.Context, userID string, report entity.ImportReport) error
	Last(ctx context.Context, userID string) (*entity.ImportReport, error)
}

// ImportRecorder recebe os contadores do relatório (métricas).
type ImportRecorder interface {
	RecordImport(report entity.ImportReport)
}
