package documents

import "storedesk/internal/core/types"

// PaymentState is the derived settlement state of an invoice or purchase receipt.
type PaymentState string

const (
	StateUnpaid  PaymentState = "Chưa thanh toán"
	StatePartial PaymentState = "Thanh toán một phần"
	StatePaid    PaymentState = "Đã thanh toán"
)

// PaymentStateOf derives the state from the two stored amounts.
func PaymentStateOf(total, paid types.Money) PaymentState {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatePaid
	case paid.IsPositive():
		return StatePartial
	default:
		return StateUnpaid
	}
}

// ValidPaymentState reports whether s names a PaymentState.
func ValidPaymentState(s string) bool {
	switch PaymentState(s) {
	case StateUnpaid, StatePartial, StatePaid:
		return true
	}
	return false
}
