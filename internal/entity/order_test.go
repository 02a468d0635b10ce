package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"placed to processing", StatusOrderPlaced, StatusProcessing, true},
		{"placed to payment pending", StatusOrderPlaced, StatusPaymentPending, true},
		{"placed to cancelled", StatusOrderPlaced, StatusCancelled, true},
		{"placed to delivered skips shipping", StatusOrderPlaced, StatusDelivered, false},
		{"payment pending to received", StatusPaymentPending, StatusPaymentReceived, true},
		{"payment received to processing", StatusPaymentReceived, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"delivered to return accepted", StatusDelivered, StatusReturnAccepted, true},
		{"delivered to cancelled", StatusDelivered, StatusCancelled, false},
		{"return accepted to picked up", StatusReturnAccepted, StatusReturnPickedUp, true},
		{"return picked up to refund completed", StatusReturnPickedUp, StatusRefundCompleted, true},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, false},
		{"refund completed is terminal", StatusRefundCompleted, StatusOrderPlaced, false},
		{"no self transition", StatusProcessing, StatusProcessing, false},
		{"backwards is rejected", StatusDelivered, StatusShipped, false},
		{"unknown status", OrderStatus("LOST"), StatusProcessing, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestReversing(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"cancel from processing restocks", StatusProcessing, StatusCancelled, true},
		{"cancel from placed restocks", StatusOrderPlaced, StatusCancelled, true},
		{"return accepted restocks", StatusDelivered, StatusReturnAccepted, true},
		{"picked up after accepted does not restock again", StatusReturnAccepted, StatusReturnPickedUp, false},
		{"refund after picked up does not restock again", StatusReturnPickedUp, StatusRefundCompleted, false},
		{"forward transition never restocks", StatusProcessing, StatusShipped, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reversing(tc.from, tc.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		StatusOrderPlaced, StatusProcessing, StatusShipped, StatusDelivered,
		StatusPaymentPending, StatusPaymentReceived, StatusCancelled,
		StatusReturnAccepted, StatusReturnPickedUp, StatusRefundCompleted,
	} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("SHIPPING"))
}

func TestCanTransitionReturn(t *testing.T) {
	tests := []struct {
		name string
		from ReturnStatus
		to   ReturnStatus
		want bool
	}{
		{"requested to approved", ReturnRequested, ReturnApproved, true},
		{"requested to rejected", ReturnRequested, ReturnRejected, true},
		{"requested to refunded skips pickup", ReturnRequested, ReturnRefunded, false},
		{"approved to picked up", ReturnApproved, ReturnPickedUp, true},
		{"picked up to refunded", ReturnPickedUp, ReturnRefunded, true},
		{"rejected is terminal", ReturnRejected, ReturnApproved, false},
		{"refunded is terminal", ReturnRefunded, ReturnRequested, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransitionReturn(tc.from, tc.to))
		})
	}
}
