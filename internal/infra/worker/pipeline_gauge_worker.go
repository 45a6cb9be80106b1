package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// StatusCounter é o pedaço do repositório de leads que o worker usa.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// PipelineGaugeWorker publica periodicamente quantos leads há em cada coluna do kanban.
type PipelineGaugeWorker struct {
	counter      StatusCounter
	publish      func(map[string]int)
	tickInterval time.Duration
	log          *logrus.Logger
}

func NewPipelineGaugeWorker(counter StatusCounter, publish func(map[string]int), interval time.Duration, log *logrus.Logger) *PipelineGaugeWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PipelineGaugeWorker{
		counter:      counter,
		publish:      publish,
		tickInterval: interval,
		log:          log,
	}
}

func (w *PipelineGaugeWorker) Start(ctx context.Context) {
	w.log.Infof("🕒 Pipeline gauge worker iniciado (a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Pipeline gauge worker encerrado")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh roda uma contagem; erro só é logado e o próximo tick tenta de novo.
func (w *PipelineGaugeWorker) Refresh(ctx context.Context) bool {
	counts, err := w.counter.CountByStatus(ctx)
	if err != nil {
		w.log.WithError(err).Error("❌ Erro ao contar leads por status")
		return false
	}
	w.publish(counts)
	w.log.WithField("counts", counts).Debug("📊 gauge do pipeline atualizado")
	return true
}
