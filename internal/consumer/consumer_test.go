package consumer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/events"
)

func TestProcessMessageForwardsWebhook(t *testing.T) {
	var gotKey string
	var gotBody events.OrderCreatedEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Event-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(nil, srv.URL, "orders@example.com")

	payload, err := json.Marshal(events.OrderCreatedEvent{OrderID: 12, UserID: 7, Total: 55})
	require.NoError(t, err)

	n.processMessage(context.Background(), kafka.Message{
		Key:   []byte("order.created.12"),
		Value: payload,
	})

	assert.Equal(t, "order.created.12", gotKey)
	assert.Equal(t, 12, gotBody.OrderID)
	assert.Equal(t, 55.0, gotBody.Total)
}

func TestProcessMessageIgnoresMalformedKey(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	n := NewNotifier(nil, srv.URL, "orders@example.com")
	n.processMessage(context.Background(), kafka.Message{Key: []byte("garbage"), Value: []byte("{}")})

	assert.Zero(t, hits, "messages without a routable key are dropped")
}

func TestProcessMessageSurvivesWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(nil, srv.URL, "orders@example.com")
	payload, err := json.Marshal(events.StockEvent{StoreID: 1, ProductID: 3})
	require.NoError(t, err)

	// Must not panic or retry forever; the failure is logged and dropped.
	n.processMessage(context.Background(), kafka.Message{
		Key:   []byte("product.out_of_stock.3"),
		Value: payload,
	})
}

func TestProcessMessageNoWebhookConfigured(t *testing.T) {
	n := NewNotifier(nil, "", "orders@example.com")
	payload, err := json.Marshal(events.OrderStatusChangedEvent{OrderID: 5, To: "SHIPPED"})
	require.NoError(t, err)

	n.processMessage(context.Background(), kafka.Message{
		Key:   []byte("order.status_changed.5"),
		Value: payload,
	})
}
