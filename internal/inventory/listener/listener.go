package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/inventory"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

// Start consumes until ctx is cancelled. A message is committed only once all
// of its items were handled, so a shutdown mid-message leaves it for
// redelivery; the order reference keeps redelivered deductions idempotent.
func (l *InventoryListener) Start(ctx context.Context) error {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		msg, err := l.consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Stopping Inventory Kafka Listener")
				return nil
			}
			l.logger.Error("Failed to fetch kafka message", zap.Error(err))
			if !l.wait(ctx) {
				return nil
			}
			continue
		}

		if err := l.processMessage(ctx, msg.Value); err != nil {
			l.logger.Info("Stopping Inventory Kafka Listener before commit", zap.Int64("offset", msg.Offset))
			return nil
		}
		if err := l.consumer.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			l.logger.Error("Failed to commit kafka message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

const EventOrderCreated = "OrderCreated"

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID           string             `json:"id"`
	RestaurantID string             `json:"restaurant_id"`
	Items        []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID   string  `json:"product_id"`
	VariationID *string `json:"variation_id"`
	Quantity    int     `json:"quantity"`
}

// processMessage returns an error only when ctx ended before every item was
// handled. Malformed events and rejected items are logged and skipped.
func (l *InventoryListener) processMessage(ctx context.Context, value []byte) error {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return nil
	}

	if event.EventType != EventOrderCreated {
		return nil
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range mergeItems(event.Payload.Items) {
		input := &dto.AdjustStockInput{
			RestaurantID:   event.Payload.RestaurantID,
			ProductID:      item.ProductID,
			VariationID:    *item.VariationID,
			QuantityChange: -item.Quantity,
			MovementType:   "sale",
			Reason:         "Order Sale",
			ReferenceID:    event.Payload.ID,
			ReferenceType:  "order",
			UserID:         "system",
		}

		err := l.adjust(ctx, input)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log := l.logger.Error
		if errors.Is(err, inventory.ErrInsufficientStock) || errors.Is(err, inventory.ErrVariationNotFound) {
			log = l.logger.Warn
		}
		log("Failed to adjust stock for order item",
			zap.String("order_id", event.Payload.ID),
			zap.String("product_id", item.ProductID),
			zap.String("variation_id", *item.VariationID),
			zap.Error(err),
		)
	}
	return nil
}

// adjust retries while the product is locked by another writer.
func (l *InventoryListener) adjust(ctx context.Context, input *dto.AdjustStockInput) error {
	for {
		_, err := l.uc.AdjustStock(ctx, input)
		if !errors.Is(err, cache.ErrLockNotAcquired) {
			return err
		}
		l.logger.Warn("Product locked, retrying stock adjustment",
			zap.String("order_id", input.ReferenceID),
			zap.String("product_id", input.ProductID),
		)
		if !l.wait(ctx) {
			return ctx.Err()
		}
	}
}

func (l *InventoryListener) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(l.backoff):
		return true
	}
}

// mergeItems sums quantities per variation, keeping first-seen order. The
// order id is the movement reference, so one order yields one deduction per
// variation. Items of simple products carry no variation and are skipped.
func mergeItems(items []OrderItemPayload) []OrderItemPayload {
	out := make([]OrderItemPayload, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.VariationID == nil || *item.VariationID == "" || item.Quantity <= 0 {
			continue
		}
		key := item.ProductID + "/" + *item.VariationID
		if i, ok := index[key]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}
