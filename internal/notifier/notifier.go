// Package notifier sends templated messages to clients over a messaging
// channel and records every attempt in the notifications table. Channel
// failures never propagate to callers: engines only learn whether the
// message went out through the returned flag.
package notifier

import (
	"context"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/repository"
	"github.com/creditos/creditos-backend/pkg/email"
	"github.com/creditos/creditos-backend/pkg/telegram"

	"go.uber.org/zap"
)

// SendResult is the non-throwing outcome of one channel delivery.
type SendResult struct {
	Success bool
	Raw     string
}

// Channel abstracts one outbound medium.
type Channel interface {
	Medium() domain.NotificationMedium
	// Destination resolves where to reach the client over this medium;
	// empty means the client cannot be reached and the send is skipped.
	Destination(client *domain.Client) string
	Send(ctx context.Context, destination, message string) SendResult
}

type TelegramChannel struct {
	client *telegram.Client
}

func NewTelegramChannel(client *telegram.Client) *TelegramChannel {
	return &TelegramChannel{client: client}
}

func (t *TelegramChannel) Medium() domain.NotificationMedium {
	return domain.MediumTelegram
}

func (t *TelegramChannel) Destination(client *domain.Client) string {
	return client.TelegramChatID
}

func (t *TelegramChannel) Send(_ context.Context, destination, message string) SendResult {
	res := t.client.SendMessage(destination, message)
	return SendResult{Success: res.Success, Raw: res.Raw}
}

type EmailChannel struct {
	sender  *email.Sender
	subject string
}

func NewEmailChannel(sender *email.Sender) *EmailChannel {
	return &EmailChannel{sender: sender, subject: "Notificación de créditos"}
}

func (e *EmailChannel) Medium() domain.NotificationMedium {
	return domain.MediumEmail
}

func (e *EmailChannel) Destination(client *domain.Client) string {
	return client.Email
}

func (e *EmailChannel) Send(_ context.Context, destination, message string) SendResult {
	if err := e.sender.Send(destination, e.subject, message); err != nil {
		return SendResult{Success: false, Raw: err.Error()}
	}
	return SendResult{Success: true, Raw: "accepted"}
}

// Dispatcher pairs a channel with the notification log.
type Dispatcher struct {
	channel       Channel
	notifications repository.NotificationRepository
	log           *zap.Logger
}

func NewDispatcher(
	channel Channel,
	notifications repository.NotificationRepository,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		channel:       channel,
		notifications: notifications,
		log:           log,
	}
}

// Dispatch sends mensaje to the client and records the attempt. A client
// without a destination is skipped silently; the record is written either
// way. Returns whether the channel accepted the message.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	client *domain.Client,
	tipo domain.NotificationType,
	mensaje string,
) bool {
	var result SendResult

	destination := d.channel.Destination(client)
	if destination == "" {
		d.log.Warn("Client has no destination for channel, skipping send",
			zap.Uint64("cliente_id", client.ID),
			zap.String("medio", string(d.channel.Medium())),
			zap.String("tipo", string(tipo)),
		)
		result = SendResult{Success: false, Raw: "no destination configured for client"}
	} else {
		result = d.channel.Send(ctx, destination, mensaje)
		if !result.Success {
			d.log.Error("Notification delivery failed",
				zap.Uint64("cliente_id", client.ID),
				zap.String("tipo", string(tipo)),
				zap.String("response", result.Raw),
			)
		}
	}

	record := domain.Notification{
		ClienteID:   client.ID,
		Tipo:        tipo,
		Mensaje:     mensaje,
		Medio:       d.channel.Medium(),
		EstadoEnvio: domain.SendFailed,
		ResponseAPI: result.Raw,
	}
	if result.Success {
		now := time.Now()
		record.EstadoEnvio = domain.SendDelivered
		record.FechaEnvio = &now
	}

	if err := d.notifications.Record(ctx, &record); err != nil {
		d.log.Error("Failed to persist notification record",
			zap.Uint64("cliente_id", client.ID),
			zap.String("tipo", string(tipo)),
			zap.Error(err),
		)
	}

	return result.Success
}
