package domain

import "strings"

// VoucherStatus enumerates redemption states reported by the backend.
// The zero value means the status is unknown or absent.
type VoucherStatus string

const (
	VoucherStatusUnknown           VoucherStatus = ""
	VoucherStatusNotRedeemed       VoucherStatus = "NOT_REDEEMED"
	VoucherStatusRedeemed          VoucherStatus = "REDEEMED"
	VoucherStatusPartiallyRedeemed VoucherStatus = "PARTIALLY_REDEEMED"
	VoucherStatusExpired           VoucherStatus = "EXPIRED"
)

// VoucherTypeUniversal marks vouchers that must be activated online before use.
const VoucherTypeUniversal = "universal"

// ParseVoucherStatus upper-cases raw backend text. Values outside the known
// set are kept verbatim so they can be reported, but never compare equal to
// a known status.
func ParseVoucherStatus(raw string) VoucherStatus {
	return VoucherStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// Known reports whether s is one of the enumerated statuses.
func (s VoucherStatus) Known() bool {
	switch s {
	case VoucherStatusNotRedeemed, VoucherStatusRedeemed, VoucherStatusPartiallyRedeemed, VoucherStatusExpired:
		return true
	}
	return false
}

// Used reports whether any part of the voucher value has been consumed.
func (s VoucherStatus) Used() bool {
	return s == VoucherStatusRedeemed || s == VoucherStatusPartiallyRedeemed
}

// VoucherSnapshot is a read-only projection of a voucher at decision time.
type VoucherSnapshot struct {
	Code              string
	Status            VoucherStatus
	IssueDate         string
	ValidUntil        string
	Type              string
	RemainingValue    *float64
	BoundRestaurantID *string
	RedeemedAt        *string
}
