package gateio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"spread_go/internal/domain"
	"spread_go/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const ordersPath = "/api/v4/futures/usdt/orders"

// RestClient submits market orders to the venue's trading endpoint.
// Order submission is rate limited; the venue enforces its own caps.
type RestClient struct {
	baseURL    string
	httpClient *http.Client
	signer     *Signer
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewRestClient creates the REST trading client.
func NewRestClient(cfg *infra.Config) *RestClient {
	return &RestClient{
		baseURL: cfg.API.Gate.RestURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer:  NewSigner(cfg.API.Gate.APIKey, cfg.API.Gate.APISecret),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		logger:  slog.Default().With("module", "gate_rest"),
	}
}

// Execute submits a market IOC order and waits for the fill confirmation.
// On any failure the returned order carries OrderStatusFailed and the caller
// must leave position state untouched.
func (c *RestClient) Execute(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.Status = domain.OrderStatusFailed

	if err := c.limiter.Wait(ctx); err != nil {
		return order, domain.NewNetworkError("rate limit", err)
	}

	// Venue convention: negative size sells, price "0" is a market order.
	size := order.Size.IntPart()
	if order.Side == domain.SideSell {
		size = -size
	}
	reqBody := orderRequest{
		Contract:   order.Contract,
		Size:       size,
		Price:      "0",
		Tif:        "ioc",
		Text:       clientOrderID(),
		Close:      order.Close,
		ReduceOnly: order.Close,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, ordersPath, reqBody)
	if err != nil {
		return order, domain.NewNetworkError("place order", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return order, fmt.Errorf("%w: status=%d body=%s", domain.ErrOrderRejected, resp.StatusCode, string(bodyBytes))
	}

	var venueOrder orderResponse
	if err := json.Unmarshal(bodyBytes, &venueOrder); err != nil {
		return order, fmt.Errorf("failed to parse order response: %w", err)
	}

	fillPrice, err := decimal.NewFromString(venueOrder.FillPrice)
	if err != nil || !fillPrice.IsPositive() {
		// An IOC order that crossed nothing finishes with a zero fill price.
		return order, fmt.Errorf("%w: status=%s finish_as=%s", domain.ErrOrderRejected, venueOrder.Status, venueOrder.FinishAs)
	}

	order.ID = strconv.FormatInt(venueOrder.ID, 10)
	order.Status = domain.OrderStatusFilled
	order.FillPrice = fillPrice
	infra.GlobalMetrics.RecordOrderFilled()

	c.logger.Info("order filled",
		slog.String("contract", order.Contract),
		slog.String("side", order.Side),
		slog.String("size", order.Size.String()),
		slog.String("fill_price", fillPrice.String()))
	return order, nil
}

// doRequest handles auth headers and serialization
func (c *RestClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	var bodyStr string

	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBytes)
		bodyStr = string(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	req.Header.Set("KEY", c.signer.Key())
	req.Header.Set("Timestamp", strconv.FormatInt(now, 10))
	req.Header.Set("SIGN", c.signer.SignRequest(method, path, "", bodyStr, now))
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// clientOrderID builds the venue's "t-" prefixed client id.
func clientOrderID() string {
	return "t-" + uuid.NewString()[:8]
}
