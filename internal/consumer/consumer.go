package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/events"
)

// Notifier consumes order and stock events and performs the outbound side
// effects: confirmation emails (stubbed as structured log lines) and an
// optional webhook POST. Nothing here ever propagates a failure back to
// the order flow; the events were already committed.
type Notifier struct {
	reader     *kafka.Reader
	webhookURL string
	smtpFrom   string
	client     *http.Client
}

func NewNotifier(reader *kafka.Reader, webhookURL, smtpFrom string) *Notifier {
	return &Notifier{
		reader:     reader,
		webhookURL: webhookURL,
		smtpFrom:   smtpFrom,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Start blocks reading the topic until ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for {
		msg, err := n.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		n.processMessage(ctx, msg)
	}
}

// processMessage routes on the message key: "order.<kind>.<id>" or
// "product.<kind>.<id>".
func (n *Notifier) processMessage(ctx context.Context, msg kafka.Message) {
	key := string(msg.Key)
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		log.Error().Msgf("Unknown event key: %s", key)
		return
	}
	kind := parts[1]

	switch kind {
	case events.KindCreated:
		var event events.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling message: %v", err)
			return
		}
		n.sendOrderConfirmation(event)
	case events.KindStatusChanged:
		var event events.OrderStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling message: %v", err)
			return
		}
		log.Info().
			Str("from", n.smtpFrom).
			Int("order_id", event.OrderID).
			Str("status", string(event.To)).
			Msg("Sending order status email")
	case events.KindBackInStock:
		var event events.StockEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling message: %v", err)
			return
		}
		log.Info().
			Int("product_id", event.ProductID).
			Int("quantity", event.Quantity).
			Msg("Sending restock notification")
	case events.KindOutOfStock:
		var event events.StockEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling message: %v", err)
			return
		}
		log.Warn().
			Int("product_id", event.ProductID).
			Int("store_id", event.StoreID).
			Msg("Product out of stock")
	case events.KindReturn:
		var event events.ReturnRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling message: %v", err)
			return
		}
		log.Info().
			Str("rma", event.RMANumber).
			Int("order_id", event.OrderID).
			Float64("refund", event.RefundAmount).
			Msg("Sending return confirmation email")
	default:
		log.Error().Msgf("Unknown event kind: %s", kind)
	}

	n.forwardWebhook(ctx, key, msg.Value)
}

// sendOrderConfirmation renders the invoice line items into the log. A
// real deployment would hand this to an SMTP client.
func (n *Notifier) sendOrderConfirmation(event events.OrderCreatedEvent) {
	shipments := make([]string, 0, len(event.Items))
	for _, item := range event.Items {
		shipments = append(shipments, item.ShipmentID)
	}
	log.Info().
		Str("from", n.smtpFrom).
		Int("order_id", event.OrderID).
		Int("user_id", event.UserID).
		Float64("total", event.Total).
		Strs("shipments", shipments).
		Msg("Sending order confirmation email with invoice")
}

func (n *Notifier) forwardWebhook(ctx context.Context, key string, payload []byte) {
	if n.webhookURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		log.Error().Msgf("Error building webhook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Key", key)

	resp, err := n.client.Do(req)
	if err != nil {
		log.Error().Msgf("Error delivering webhook for %s: %v", key, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Error().Msgf("Webhook for %s returned %d", key, resp.StatusCode)
	}
}
