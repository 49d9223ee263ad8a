package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"safari/pkg/model"
)

// BookingClient is a thin HTTP client for the bookings API, authenticated
// with a bearer token.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl, token string) *BookingClient {
	httpClient := NewHttpClient(baseUrl)
	httpClient.Token = token
	return &BookingClient{httpClient: httpClient}
}

func (c *BookingClient) CreateCheckout(ctx context.Context, req model.CheckoutRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/stripe-checkout", req)
}

func (c *BookingClient) CreateCash(ctx context.Context, req model.CheckoutRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/cash", req)
}

func (c *BookingClient) VerifyPayment(ctx context.Context, sessionID string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/verify-payment", model.VerifyPaymentRequest{SessionID: sessionID})
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingClient) ListMine(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/my")
}

func (c *BookingClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	return c.httpClient.GET(ctx, fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset))
}

// Queue lists a role-scoped view, e.g. ("driver", "pending") or
// ("guide", "available").
func (c *BookingClient) Queue(ctx context.Context, role model.Role, view string) (*Response, error) {
	return c.httpClient.GET(ctx, fmt.Sprintf("/api/v1/bookings/%s/%s", role, url.PathEscape(view)))
}

func (c *BookingClient) Accept(ctx context.Context, role model.Role, id string) (*Response, error) {
	return c.httpClient.POST(ctx, fmt.Sprintf("/api/v1/bookings/%s/accept/%s", role, url.PathEscape(id)), nil)
}

func (c *BookingClient) Complete(ctx context.Context, role model.Role, id string) (*Response, error) {
	return c.httpClient.POST(ctx, fmt.Sprintf("/api/v1/bookings/%s/complete/%s", role, url.PathEscape(id)), nil)
}

func (c *BookingClient) AssignDriver(ctx context.Context, id, driverID string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/admin/assign-driver/"+url.PathEscape(id), model.AssignDriverRequest{DriverID: driverID})
}

func (c *BookingClient) AssignGuide(ctx context.Context, id, guideID string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/admin/assign-guide/"+url.PathEscape(id), model.AssignGuideRequest{GuideID: guideID})
}

func (c *BookingClient) AdminComplete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/admin/complete/"+url.PathEscape(id), nil)
}

func (c *BookingClient) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*Response, error) {
	return c.httpClient.PUT(ctx, "/api/v1/bookings/status/"+url.PathEscape(id), model.StatusUpdateRequest{Status: status})
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/bookings/cancel/"+url.PathEscape(id), nil)
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
