package entity

import "time"

type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "REQUESTED"
	ReturnApproved  ReturnStatus = "APPROVED"
	ReturnPickedUp  ReturnStatus = "PICKED_UP"
	ReturnRefunded  ReturnStatus = "REFUNDED"
	ReturnRejected  ReturnStatus = "REJECTED"
)

// returnTransitions mirrors the RMA lifecycle. REJECTED and REFUNDED are terminal.
var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnRequested: {ReturnApproved, ReturnRejected},
	ReturnApproved:  {ReturnPickedUp},
	ReturnPickedUp:  {ReturnRefunded},
}

func CanTransitionReturn(from, to ReturnStatus) bool {
	for _, next := range returnTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ReturnRequest struct {
	ID           int          `json:"id"`
	OrderID      int          `json:"order_id"`
	OrderItemID  int          `json:"order_item_id"`
	RMANumber    string       `json:"rma_number"`
	Reason       string       `json:"reason"`
	Status       ReturnStatus `json:"status"`
	RefundAmount float64      `json:"refund_amount"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
