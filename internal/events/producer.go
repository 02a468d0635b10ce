package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Producer publishes order and stock events. Callers treat publishing as
// fire-and-forget: a failed write is logged here and never fails the
// business operation that triggered it.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(writer *kafka.Writer) *Producer {
	return &Producer{writer: writer}
}

func (p *Producer) publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Error publishing event")
		return err
	}
	return nil
}

func (p *Producer) OrderCreated(ctx context.Context, order *entity.Order) error {
	event := OrderCreatedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		StoreID:   order.StoreID,
		UserID:    order.UserID,
		Total:     order.Total,
		Items:     order.Items,
		Status:    order.Status,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("order.%s.%d", KindCreated, order.ID), event)
}

func (p *Producer) OrderStatusChanged(ctx context.Context, orderID int, from, to entity.OrderStatus) error {
	event := OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		OrderID:   orderID,
		From:      from,
		To:        to,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("order.%s.%d", KindStatusChanged, orderID), event)
}

func (p *Producer) OutOfStock(ctx context.Context, storeID, productID int) error {
	event := StockEvent{
		EventID:   uuid.New().String(),
		StoreID:   storeID,
		ProductID: productID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("product.%s.%d", KindOutOfStock, productID), event)
}

func (p *Producer) BackInStock(ctx context.Context, storeID, productID, quantity int) error {
	event := StockEvent{
		EventID:   uuid.New().String(),
		StoreID:   storeID,
		ProductID: productID,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("product.%s.%d", KindBackInStock, productID), event)
}

func (p *Producer) ReturnRequested(ctx context.Context, ret *entity.ReturnRequest) error {
	event := ReturnRequestedEvent{
		EventID:      uuid.New().String(),
		ReturnID:     ret.ID,
		OrderID:      ret.OrderID,
		RMANumber:    ret.RMANumber,
		RefundAmount: ret.RefundAmount,
		Timestamp:    time.Now(),
	}
	return p.publish(ctx, fmt.Sprintf("order.%s.%d", KindReturn, ret.OrderID), event)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
