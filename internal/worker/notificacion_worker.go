package worker

// notificacion_worker.go
// Processes quotation notification jobs from QueueNotificaciones.
// Emails the company contact whenever a quotation reaches a state the
// client cares about (enviada, aprobada, rechazada).

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rsg28/TuSalud-Backend/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificacionPayload is the job envelope sent to QueueNotificaciones.
type NotificacionPayload struct {
	ToEmail          string `json:"to_email"`
	NumeroCotizacion string `json:"numero_cotizacion"`
	NumeroPedido     string `json:"numero_pedido"`
	Estado           string `json:"estado"`
}

// NotificacionWorker sends quotation state emails via SMTP.
type NotificacionWorker struct {
	mailer *infra.Mailer
}

// NewNotificacionWorker creates a NotificacionWorker with the provided SMTP mailer.
func NewNotificacionWorker(mailer *infra.Mailer) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer}
}

// Process sends the notification email for a quotation state change.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notificacion_worker: empty to_email — skipping")
		return
	}

	subject := fmt.Sprintf("Cotización %s — %s", payload.NumeroCotizacion, payload.Estado)
	body := fmt.Sprintf(
		"La cotización %s del pedido %s cambió de estado a %s.\n\nIngrese a la plataforma para ver el detalle.",
		payload.NumeroCotizacion, payload.NumeroPedido, payload.Estado,
	)

	if err := w.mailer.SendNotificacion(payload.ToEmail, subject, body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("notificacion_worker: failed to send email")
		return
	}
	log.Info().
		Str("to", payload.ToEmail).
		Str("cotizacion", payload.NumeroCotizacion).
		Msg("notificacion_worker: notificación enviada")
}
