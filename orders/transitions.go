package orders

import (
	"digishop/models"
)

// Transition names the order state changes.
type Transition string

const (
	TransitionPay     Transition = "pay"
	TransitionDeliver Transition = "deliver"
	TransitionCancel  Transition = "cancel"
)

// OfflinePaymentMethod requires no gateway confirmation; paying with it
// synthesizes the receipt fields.
const OfflinePaymentMethod = "Cash on Delivery"

// SyntheticReceipt is the receipt stamped on offline payments.
func SyntheticReceipt(updateTime string) models.PaymentResult {
	return models.PaymentResult{
		ID:           "COD",
		Status:       "paid",
		UpdateTime:   updateTime,
		EmailAddress: "N/A",
	}
}

// CanTransition is the single gate every status change passes through.
// The current policy is deliberately lenient: paying twice, delivering
// an unpaid order, and cancelling a delivered order are all permitted,
// matching observed storefront behavior. Tightening any of these is a
// one-line change here rather than a handler hunt.
func CanTransition(order models.Order, t Transition) error {
	switch t {
	case TransitionPay, TransitionDeliver, TransitionCancel:
		return nil
	default:
		return ErrUnknownTransition
	}
}
