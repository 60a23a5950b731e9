package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultRatesURL serves USD-based rates.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

// RatesResult carries the rates and whether they came from the live endpoint.
type RatesResult struct {
	Rates models.Rates
	Live  bool
}

// RatesClient fetches conversion rates into the base currency.
type RatesClient struct {
	url          string
	baseCurrency string
	fallback     models.Rates
	httpClient   *http.Client
	logger       logging.Logger
}

// NewRatesClient creates a client. fallback is returned whenever the endpoint
// cannot be used.
func NewRatesClient(url, baseCurrency string, timeout time.Duration, fallback models.Rates, logger logging.Logger) *RatesClient {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if url == "" {
		url = DefaultRatesURL
	}
	if baseCurrency == "" {
		baseCurrency = models.DefaultBaseCurrency
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RatesClient{
		url:          url,
		baseCurrency: strings.ToUpper(baseCurrency),
		fallback:     fallback,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch returns live rates, or the fallback table with Live=false.
func (c *RatesClient) Fetch(ctx context.Context) RatesResult {
	rates, err := c.fetchLive(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Exchange rate fetch failed, using fallback rates",
			logging.Field{Key: "url", Value: c.url})
		return RatesResult{Rates: c.fallbackRates(), Live: false}
	}
	return RatesResult{Rates: rates, Live: true}
}

func (c *RatesClient) fetchLive(ctx context.Context) (models.Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WithError(cerr).Debug("Failed to close rates response body")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned %s", resp.Status)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	return c.crossRates(body)
}

// crossRates turns quote-per-anchor rates into base-per-unit rates: one unit
// of X is worth rates[base] / rates[X] in the base currency.
func (c *RatesClient) crossRates(body ratesResponse) (models.Rates, error) {
	anchor := strings.ToUpper(body.Base)
	if anchor == "" {
		anchor = "USD"
	}
	quotes := make(map[string]decimal.Decimal, len(body.Rates)+1)
	for k, v := range body.Rates {
		quotes[strings.ToUpper(k)] = v
	}
	if _, ok := quotes[anchor]; !ok {
		quotes[anchor] = decimal.NewFromInt(1)
	}

	basePerAnchor, ok := quotes[c.baseCurrency]
	if !ok || !basePerAnchor.IsPositive() {
		return nil, fmt.Errorf("missing rate for base currency %s", c.baseCurrency)
	}

	out := models.Rates{c.baseCurrency: decimal.NewFromInt(1)}
	for cur := range c.fallback {
		q, ok := quotes[cur]
		if !ok || !q.IsPositive() {
			return nil, fmt.Errorf("missing rate for %s", cur)
		}
		if cur != c.baseCurrency {
			out[cur] = basePerAnchor.Div(q)
		}
	}
	return out, nil
}

func (c *RatesClient) fallbackRates() models.Rates {
	out := make(models.Rates, len(c.fallback))
	for k, v := range c.fallback {
		out[k] = v
	}
	return out
}

// RatesFromConfig converts configured float rates.
func RatesFromConfig(rates map[string]float64) models.Rates {
	out := make(models.Rates, len(rates))
	for k, v := range rates {
		out[strings.ToUpper(k)] = decimal.NewFromFloat(v)
	}
	return out
}
