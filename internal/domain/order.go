package domain

import "strings"

// PaymentStatus enumerates payment states of an order.
// The zero value means the status is unknown or absent.
type PaymentStatus string

const (
	PaymentStatusUnknown PaymentStatus = ""
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// ParsePaymentStatus upper-cases raw backend text.
func ParsePaymentStatus(raw string) PaymentStatus {
	return PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// OrderSnapshot is a read-only projection of an order at decision time.
type OrderSnapshot struct {
	OrderID       string
	BuyerEmail    string
	CreatedAt     string
	PaymentStatus PaymentStatus
	RefundStatus  string
	TotalAmount   *float64
	Currency      string
}
