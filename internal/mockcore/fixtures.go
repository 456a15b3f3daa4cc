package mockcore

import "github.com/spec-kit/support-agent/internal/provider"

// DispatchRecord describes how a voucher was delivered.
type DispatchRecord struct {
	OrderID        string `json:"order_id"`
	Method         string `json:"method"`
	SentAt         string `json:"sent_at"`
	RecipientEmail string `json:"recipient_email"`
	BounceFlag     bool   `json:"bounce_flag"`
}

// RestaurantRecord is a partner restaurant.
type RestaurantRecord struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	City                string `json:"city"`
	IsActive            bool   `json:"is_active"`
	IsTemporarilyClosed bool   `json:"is_temporarily_closed"`
}

// Fixtures is the data set served by the mock backend.
type Fixtures struct {
	Orders      []provider.OrderRecord
	Vouchers    []provider.VoucherRecord
	Dispatch    map[string]DispatchRecord
	Restaurants map[string]RestaurantRecord
}

func f64(v float64) *float64 { return &v }
func str(v string) *string    { return &v }

// DefaultFixtures covers one case per policy outcome:
// 4711 paid within the window, 9001 paid outside it, 7777 unpaid;
// ABC123 universal unused, XYZ789 restaurant-bound redeemed, OLD000 expired.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Orders: []provider.OrderRecord{
			{OrderID: "4711", BuyerEmail: "kunde@example.com", CreatedAt: "2025-08-20", TotalAmount: f64(50), Currency: "EUR", PaymentStatus: "PAID", PaidAt: str("2025-08-20"), RefundStatus: "NONE"},
			{OrderID: "9001", BuyerEmail: "x@ex.de", CreatedAt: "2025-08-01", TotalAmount: f64(80), Currency: "EUR", PaymentStatus: "PAID", PaidAt: str("2025-08-01"), RefundStatus: "NONE"},
			{OrderID: "7777", BuyerEmail: "nopay@example.com", CreatedAt: "2025-08-25", TotalAmount: f64(30), Currency: "EUR", PaymentStatus: "PENDING", RefundStatus: "NONE"},
		},
		Vouchers: []provider.VoucherRecord{
			{VoucherCode: "ABC123", PIN: "9999", Type: "universal", IssueDate: "2024-01-02", ValidUntil: "2027-12-31", Status: "NOT_REDEEMED", RemainingValue: f64(50)},
			{VoucherCode: "XYZ789", PIN: "1111", Type: "restaurant", IssueDate: "2023-09-01", ValidUntil: "2026-12-31", Status: "REDEEMED", RemainingValue: f64(0), BoundRestaurantID: str("R1"), RedeemedAt: str("2025-08-15")},
			{VoucherCode: "OLD000", PIN: "0000", Type: "universal", IssueDate: "2020-05-01", ValidUntil: "2023-12-31", Status: "EXPIRED", RemainingValue: f64(0)},
		},
		Dispatch: map[string]DispatchRecord{
			"4711": {OrderID: "4711", Method: "email", SentAt: "2025-08-20T10:00:00Z", RecipientEmail: "kunde@example.com"},
		},
		Restaurants: map[string]RestaurantRecord{
			"R1": {ID: "R1", Name: "Ristorante Demo", City: "Hamburg", IsActive: true},
		},
	}
}

func (f Fixtures) order(orderID, email string) (provider.OrderRecord, bool) {
	if orderID != "" {
		for _, o := range f.Orders {
			if o.OrderID == orderID {
				return o, true
			}
		}
	}
	if email != "" {
		for _, o := range f.Orders {
			if o.BuyerEmail == email {
				return o, true
			}
		}
	}
	return provider.OrderRecord{}, false
}

// voucher matches code and PIN; an absent PIN matches any voucher with the code.
func (f Fixtures) voucher(code, pin string) (provider.VoucherRecord, bool) {
	for _, v := range f.Vouchers {
		if v.VoucherCode == code && (pin == "" || v.PIN == pin) {
			return v, true
		}
	}
	return provider.VoucherRecord{}, false
}
