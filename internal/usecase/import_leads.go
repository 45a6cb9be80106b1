package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

var SupportedImportExtensions = []string{".csv", ".xlsx", ".xls"}

func IsSupportedImportFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedImportExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

type ImportLeadsUseCase struct {
	Parser     TabularParser
	Reconciler *Reconciler
	Reports    ImportReportStore
	Publisher  EventPublisher
	Recorder   ImportRecorder
	Log        *logrus.Logger
}

func NewImportLeadsUseCase(
	parser TabularParser,
	leadRepo entity.LeadRepositoryInterface,
	reports ImportReportStore,
	publisher EventPublisher,
	recorder ImportRecorder,
	log *logrus.Logger,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		Parser:     parser,
		Reconciler: NewReconciler(leadRepo),
		Reports:    reports,
		Publisher:  publisher,
		Recorder:   recorder,
		Log:        log,
	}
}

// Execute roda o pipeline inteiro. Erros de request (auth, formato, arquivo
// ilegível) retornam antes de qualquer linha; erros de linha vão pro relatório.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, input ImportLeadsInput) (*entity.ImportReport, error) {
	if input.Principal.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}
	if !IsSupportedImportFile(input.Filename) {
		return nil, &UnsupportedFormatError{Filename: input.Filename}
	}

	rows, err := uc.Parser.Parse(input.Filename, input.File)
	if err != nil {
		return nil, &DomainError{
			Code:    "UNREADABLE_FILE",
			Message: "could not read file: " + err.Error(),
		}
	}

	log := uc.Log.WithFields(logrus.Fields{
		"user_id": input.Principal.UserID,
		"file":    input.Filename,
		"rows":    len(rows),
	})
	log.Info("📥 importação iniciada")

	// Uma vez iniciado, o lote vai até o fim mesmo se o cliente desconectar.
	batchCtx := context.WithoutCancel(ctx)

	builder := NewReportBuilder()
	for _, row := range rows {
		outcome, err := uc.processRow(batchCtx, input.Principal.UserID, row)
		if err != nil {
			log.WithError(err).WithField("row", row.Index).Debug("linha rejeitada")
			builder.Reject(row, err)
			continue
		}
		builder.Record(outcome)
	}
	report := builder.Build()

	log.WithFields(logrus.Fields{
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"skipped":  report.Skipped,
		"rejected": report.Rejected,
	}).Info("✅ importação concluída")

	uc.afterImport(batchCtx, input, report)
	return &report, nil
}

func (uc *ImportLeadsUseCase) processRow(ctx context.Context, userID string, row entity.ImportRow) (Outcome, error) {
	mapped := MapColumns(row.Cells)
	if isBlankRecord(mapped) {
		return OutcomeSkipped, nil
	}

	fields, err := ValidateLeadInput(LeadInputFromMap(mapped))
	if err != nil {
		return OutcomeRejected, err
	}

	outcome, _, err := uc.Reconciler.Reconcile(ctx, userID, fields)
	if err != nil {
		return OutcomeRejected, err
	}
	return outcome, nil
}

// isBlankRecord: nenhum campo canônico resolvido ou todos vazios.
func isBlankRecord(mapped map[string]string) bool {
	for _, v := range mapped {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// afterImport é best-effort: cache, métricas e evento nunca falham o import.
func (uc *ImportLeadsUseCase) afterImport(ctx context.Context, input ImportLeadsInput, report entity.ImportReport) {
	if uc.Recorder != nil {
		uc.Recorder.RecordImport(report)
	}

	if uc.Reports != nil {
		if err := uc.Reports.Save(ctx, input.Principal.UserID, report); err != nil {
			uc.Log.WithError(err).Warn("⚠️ falha ao salvar último relatório de importação")
		}
	}

	if uc.Publisher != nil {
		payload := queue.ImportCompletedPayload{
			UserID:    input.Principal.UserID,
			UserEmail: input.Principal.Email,
			Filename:  filepath.Base(input.Filename),
			Inserted:  report.Inserted,
			Updated:   report.Updated,
			Skipped:   report.Skipped,
			Rejected:  report.Rejected,
		}
		if err := uc.Publisher.PublishImportCompleted(ctx, payload); err != nil {
			uc.Log.WithError(err).Warn("⚠️ import concluído, mas falha ao publicar evento")
		}
	}
}

// LastReport devolve o último relatório salvo para o usuário.
func (uc *ImportLeadsUseCase) LastReport(ctx context.Context, p Principal) (*entity.ImportReport, error) {
	if p.UserID == "" {
		return nil, &AuthenticationError{Reason: "no authenticated user"}
	}
	if uc.Reports == nil {
		return nil, &DomainError{Code: "REPORT_NOT_FOUND", Message: "no import report available"}
	}
	report, err := uc.Reports.Last(ctx, p.UserID)
	if err != nil {
		return nil, &TechnicalError{Code: "CACHE_ERROR", Message: "failed to load import report: " + err.Error()}
	}
	if report == nil {
		return nil, &DomainError{Code: "REPORT_NOT_FOUND", Message: "no import report available"}
	}
	return report, nil
}
