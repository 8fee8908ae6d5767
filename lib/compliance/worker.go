package compliancehandler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"cultivation-backend/config"
	"cultivation-backend/db"
	registryclient "cultivation-backend/lib/compliance/registry"
	compliancestore "cultivation-backend/lib/compliance/store"
	baseworker "cultivation-backend/lib/utils/base-worker"
)

const forwardBatchSize = 100

// StartForwardWorker запускает фоновую передачу накопленных событий во
// внешний реестр комплаенса. Без адреса реестра события остаются в очереди.
func StartForwardWorker(ctx context.Context) {
	var registry registryclient.Provider
	if config.Conf.Compliance.RegistryURL != "" {
		registry = registryclient.NewClient(config.Conf.Compliance.RegistryURL, config.Conf.Compliance.ApiKey)
	}
	worker := baseworker.NewInstance("compliance_forwarder", 30*time.Second, 5*time.Minute)
	go worker.Run(ctx, func(ctx context.Context) {
		forwardPending(ctx, compliancestore.NewInstance(db.DB), registry)
	})
}

func forwardPending(ctx context.Context, store compliancestore.Provider, registry registryclient.Provider) {
	logger := log.WithField("worker_name", "compliance_forwarder")
	list, err := store.ListPending(forwardBatchSize)
	if err != nil {
		logger.WithError(err).Error("ошибка чтения очереди событий комплаенса")
		return
	}
	if registry == nil {
		if len(list) != 0 {
			logger.
				WithField("pending_count", len(list)).
				Warn("реестр регулятора не настроен, события остаются в очереди")
		}
		return
	}
	for _, event := range list {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := registry.Send(ctx, event); err != nil {
			// порядок передачи соответствует порядку создания событий,
			// после сбоя очередь дожидается следующего цикла
			logger.
				WithError(err).
				WithField("event_id", event.ID).
				Error("ошибка передачи события комплаенса")
			return
		}
		if err := store.MarkForwarded(event.ID); err != nil {
			logger.
				WithError(err).
				WithField("event_id", event.ID).
				Error("ошибка фиксации передачи события комплаенса")
			return
		}
		logger.
			WithField("event_id", event.ID).
			WithField("event_type", event.EventType).
			Info("событие комплаенса передано в реестр")
	}
}
