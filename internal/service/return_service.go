package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

// OrderStatusUpdater is the slice of OrderService the return flow needs:
// approving a return must drive the order's reversal transition.
type OrderStatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID int, status entity.OrderStatus) (*entity.Order, error)
}

// ReturnService runs the RMA lifecycle. Approval flips the order into
// RETURN_ACCEPTED, which is what restores stock; the return record itself
// never touches the ledger directly.
type ReturnService struct {
	returns  ReturnStore
	orders   OrderStore
	statuses OrderStatusUpdater
	notifier Notifier
}

func NewReturnService(returns ReturnStore, orders OrderStore, statuses OrderStatusUpdater, notifier Notifier) *ReturnService {
	return &ReturnService{
		returns:  returns,
		orders:   orders,
		statuses: statuses,
		notifier: notifier,
	}
}

// CreateReturn opens an RMA for one order item. The order must have been
// delivered. The refund is proportional: unit price times quantity.
func (s *ReturnService) CreateReturn(ctx context.Context, orderID, orderItemID int, reason string) (*entity.ReturnRequest, error) {
	if reason == "" {
		return nil, &entity.ValidationError{Field: "reason"}
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.StatusDelivered {
		return nil, entity.ErrInvalidTransition
	}

	var item *entity.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == orderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, entity.ErrNotFound
	}

	ret := &entity.ReturnRequest{
		OrderID:      orderID,
		OrderItemID:  orderItemID,
		RMANumber:    newRMANumber(),
		Reason:       reason,
		Status:       entity.ReturnRequested,
		RefundAmount: item.Price * float64(item.Quantity),
	}

	created, err := s.returns.CreateReturn(ctx, order.StoreID, ret)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating return for order %d", orderID)
		return nil, err
	}

	if err := s.notifier.ReturnRequested(ctx, created); err != nil {
		logger.Error().Err(err).Str("rma", created.RMANumber).Msg("Error publishing return requested event")
	}

	return created, nil
}

func (s *ReturnService) GetReturn(ctx context.Context, id int) (*entity.ReturnRequest, error) {
	return s.returns.GetReturnByID(ctx, id)
}

// orderStatusFor maps an RMA stage to the order transition it drives.
var orderStatusFor = map[entity.ReturnStatus]entity.OrderStatus{
	entity.ReturnApproved: entity.StatusReturnAccepted,
	entity.ReturnPickedUp: entity.StatusReturnPickedUp,
	entity.ReturnRefunded: entity.StatusRefundCompleted,
}

// UpdateReturnStatus advances the RMA and mirrors the stage onto the
// order. Approval enters the order's reversal set, which restocks.
func (s *ReturnService) UpdateReturnStatus(ctx context.Context, id int, status entity.ReturnStatus) (*entity.ReturnRequest, error) {
	ret, err := s.returns.GetReturnByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionReturn(ret.Status, status) {
		return nil, entity.ErrInvalidTransition
	}

	order, err := s.orders.GetOrderByID(ctx, ret.OrderID)
	if err != nil {
		return nil, err
	}

	if orderStatus, ok := orderStatusFor[status]; ok {
		if _, err := s.statuses.UpdateStatus(ctx, ret.OrderID, orderStatus); err != nil {
			if !errors.Is(err, entity.ErrInvalidTransition) {
				return nil, err
			}
			// The order may already be in the target state (e.g. approved
			// twice in a race); the RMA record still advances.
		}
	}

	if err := s.returns.UpdateReturnStatus(ctx, order.StoreID, id, status); err != nil {
		logger.Error().Err(err).Msgf("Error updating return %d", id)
		return nil, err
	}

	ret.Status = status
	return ret, nil
}

// newRMANumber returns a short tracking token like RMA-3F2A9C01.
func newRMANumber() string {
	return "RMA-" + strings.ToUpper(uuid.New().String()[:8])
}
