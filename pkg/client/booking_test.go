package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"safari/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingClient_AssignDriver(t *testing.T) {
	var gotPath, gotMethod, gotAuth string
	var gotBody model.AssignDriverRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotAuth = r.URL.Path, r.Method, r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"b1","status":"Driver Assigned","driver":{"assigneeId":"d1","accepted":false}}}`))
	}))
	defer srv.Close()

	c := NewBookingClient(srv.URL, "token-123")
	resp, err := c.AssignDriver(context.Background(), "b1", "d1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/bookings/admin/assign-driver/b1", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "d1", gotBody.DriverID)

	booking, err := c.DecodeBooking(resp)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDriverAssigned, booking.Status)
	assert.Equal(t, "d1", booking.Driver.AssigneeID)
}

func TestBookingClient_DecodeBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookings", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}],"total_count":12,"limit":5,"offset":10}`))
	}))
	defer srv.Close()

	c := NewBookingClient(srv.URL, "")
	resp, err := c.GetAll(context.Background(), 5, 10)
	require.NoError(t, err)

	bookings, meta, err := c.DecodeBookings(resp)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.Equal(t, int64(12), meta.TotalCount)
	assert.Equal(t, int64(10), meta.Offset)
}

func TestGetErrorMessage(t *testing.T) {
	resp := &Response{Body: []byte(`{"error":"booking is not available to accept","code":"INVALID_TRANSITION"}`)}
	assert.Equal(t, "booking is not available to accept", GetErrorMessage(resp))

	resp = &Response{Body: []byte(`{"code":"CONFLICT"}`)}
	assert.Equal(t, "CONFLICT", GetErrorMessage(resp))
}

func TestWaitForHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewHttpClient(srv.URL).WaitForHealthy(context.Background(), 2e9))
}
