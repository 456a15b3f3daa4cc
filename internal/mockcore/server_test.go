package mockcore_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/mockcore"
	"github.com/spec-kit/support-agent/internal/provider"
	"github.com/spec-kit/support-agent/internal/provider/coreapi"
)

func get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	app := mockcore.NewServer(mockcore.DefaultFixtures()).App(zap.NewNop())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestRoutes(t *testing.T) {
	status, body := get(t, "/core/v1/order?order_id=4711")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PAID", body["payment_status"])

	_, body = get(t, "/core/v1/order?email=nopay@example.com")
	assert.Equal(t, "7777", body["order_id"])

	_, body = get(t, "/core/v1/order?order_id=1")
	assert.Empty(t, body)

	_, body = get(t, "/core/v1/voucher?code=XYZ789&pin=1111")
	assert.Equal(t, "R1", body["bound_restaurant_id"])

	_, body = get(t, "/core/v1/voucher?code=OLD000")
	assert.Equal(t, "EXPIRED", body["status"])

	status, _ = get(t, "/core/v1/voucher?code=ABC123&pin=0000")
	assert.Equal(t, http.StatusNotFound, status)

	_, body = get(t, "/core/v1/dispatch?order_id=4711")
	assert.Equal(t, "email", body["method"])

	_, body = get(t, "/core/v1/restaurant?id=R1")
	assert.Equal(t, "Hamburg", body["city"])
}

func TestCoreClientAgainstMock(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	app := mockcore.NewServer(mockcore.DefaultFixtures()).App(zap.NewNop())
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	client := coreapi.New("http://"+ln.Addr().String(), 2*time.Second)
	ctx := context.Background()

	order, err := client.GetOrder(ctx, provider.OrderQuery{Email: "x@ex.de"})
	require.NoError(t, err)
	assert.Equal(t, "9001", order.OrderID)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)

	_, err = client.GetOrder(ctx, provider.OrderQuery{OrderID: "0"})
	assert.ErrorIs(t, err, provider.ErrNotFound)

	voucher, err := client.GetVoucher(ctx, "ABC123", "9999")
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherStatusNotRedeemed, voucher.Status)

	_, err = client.GetVoucher(ctx, "NOPE", "")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}
