package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "cultivation-backend/models/db"
)

// Клиент реестра регулятора. Принимает события комплаенса по одному,
// идемпотентность на стороне реестра обеспечивается полем event_id.
type Provider interface {
	Send(ctx context.Context, event dbmodels.ComplianceEvent) error
}

const eventsPath string = "/api/v1/events"

func NewClient(registryURL, apiKey string) Provider {
	return impl{
		registryURL: strings.TrimRight(registryURL, "/"),
		apiKey:      apiKey,
	}
}

type impl struct {
	registryURL string
	apiKey      string
}

type eventRequest struct {
	EventID    string         `json:"event_id"`
	FacilityID string         `json:"facility_id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
	UserID     *string        `json:"user_id,omitempty"`
}

func (i impl) Send(ctx context.Context, event dbmodels.ComplianceEvent) error {
	uri := i.registryURL + eventsPath
	body, err := json.Marshal(eventRequest{
		EventID:    event.ID,
		FacilityID: event.FacilityID,
		EventType:  string(event.EventType),
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		OccurredAt: event.CreatedAt,
		Payload:    event.Payload,
		UserID:     event.UserID,
	})
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации события")
	}

	r, _ := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")

	logger := log.
		WithField("external_request", uri).
		WithField("event_id", event.ID)
	return i.sendRequest(logger, r)
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request) error {
	r.Header.Add("User-Agent", "CultivationBackend/1.0")
	if i.apiKey != "" {
		r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", i.apiKey))
	}
	client := &http.Client{}
	response, err := client.Do(r)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки запроса в реестр регулятора")
		return errors.Wrap(err, "ошибка отправки запроса в реестр регулятора")
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	responseBody, _ := io.ReadAll(response.Body)
	logger.
		WithField("response_body", string(responseBody)).
		Error("ошибка отправки запроса в реестр регулятора")
	return errors.Errorf("реестр регулятора вернул код %v", response.StatusCode)
}
