package provider

import "github.com/spec-kit/support-agent/internal/domain"

// OrderRecord is the backend's JSON shape for an order.
type OrderRecord struct {
	OrderID       string   `json:"order_id"`
	BuyerEmail    string   `json:"buyer_email,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	TotalAmount   *float64 `json:"total_amount,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	PaymentStatus string   `json:"payment_status,omitempty"`
	PaidAt        *string  `json:"paid_at,omitempty"`
	RefundStatus  string   `json:"refund_status,omitempty"`
}

// Snapshot projects the record into the decision model.
func (r OrderRecord) Snapshot() *domain.OrderSnapshot {
	return &domain.OrderSnapshot{
		OrderID:       r.OrderID,
		BuyerEmail:    r.BuyerEmail,
		CreatedAt:     r.CreatedAt,
		PaymentStatus: domain.ParsePaymentStatus(r.PaymentStatus),
		RefundStatus:  r.RefundStatus,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
	}
}

// OrderRecordFrom is the inverse of Snapshot, used by caches.
func OrderRecordFrom(s *domain.OrderSnapshot) OrderRecord {
	return OrderRecord{
		OrderID:       s.OrderID,
		BuyerEmail:    s.BuyerEmail,
		CreatedAt:     s.CreatedAt,
		TotalAmount:   s.TotalAmount,
		Currency:      s.Currency,
		PaymentStatus: string(s.PaymentStatus),
		RefundStatus:  s.RefundStatus,
	}
}

// VoucherRecord is the backend's JSON shape for a voucher.
type VoucherRecord struct {
	VoucherCode       string   `json:"voucher_code"`
	PIN               string   `json:"pin,omitempty"`
	Type              string   `json:"type,omitempty"`
	IssueDate         string   `json:"issue_date,omitempty"`
	ValidUntil        string   `json:"valid_until,omitempty"`
	Status            string   `json:"status,omitempty"`
	RemainingValue    *float64 `json:"remaining_value,omitempty"`
	BoundRestaurantID *string  `json:"bound_restaurant_id"`
	RedeemedAt        *string  `json:"redeemed_at"`
}

// Snapshot projects the record into the decision model. The PIN is dropped.
func (r VoucherRecord) Snapshot() *domain.VoucherSnapshot {
	return &domain.VoucherSnapshot{
		Code:              r.VoucherCode,
		Status:            domain.ParseVoucherStatus(r.Status),
		IssueDate:         r.IssueDate,
		ValidUntil:        r.ValidUntil,
		Type:              r.Type,
		RemainingValue:    r.RemainingValue,
		BoundRestaurantID: r.BoundRestaurantID,
		RedeemedAt:        r.RedeemedAt,
	}
}

// VoucherRecordFrom is the inverse of Snapshot, without PIN.
func VoucherRecordFrom(s *domain.VoucherSnapshot) VoucherRecord {
	return VoucherRecord{
		VoucherCode:       s.Code,
		Type:              s.Type,
		IssueDate:         s.IssueDate,
		ValidUntil:        s.ValidUntil,
		Status:            string(s.Status),
		RemainingValue:    s.RemainingValue,
		BoundRestaurantID: s.BoundRestaurantID,
		RedeemedAt:        s.RedeemedAt,
	}
}
