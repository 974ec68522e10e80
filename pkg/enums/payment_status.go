package enums

import "fmt"

// PaymentStatus describes how much of a booking's balance a payment settles.
type PaymentStatus string

const (
	PaymentStatusFull    PaymentStatus = "FULL"
	PaymentStatusDeposit PaymentStatus = "DEPOSIT"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusFull,
	PaymentStatusDeposit,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
