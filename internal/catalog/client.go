package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/victorazevedo0/loja-virtual/pkg/circuitbreaker"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

const DefaultURL = "https://fakestoreapi.com/products"

// maxBodySize caps the catalog payload read into memory.
const maxBodySize = 10 << 20

var (
	ErrCatalogUnavailable = errors.New("external catalog unavailable")
	ErrBadResponse        = errors.New("unexpected response from external catalog")
)

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is one entry of the remote catalog listing.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Config struct {
	URL     string
	Timeout time.Duration
	Breaker circuitbreaker.Config
}

// Client fetches the remote catalog. Calls are never retried; repeated
// failures open the breaker and later calls fail fast until it half-opens.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	breaker *circuitbreaker.Breaker[[]Product]
	log     *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.DefaultConfig("catalog")
	}
	log = log.WithComponent("catalog")

	return &Client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		breaker: circuitbreaker.New[[]Product](cfg.Breaker, log),
		log:     log,
	}
}

// FetchProducts downloads the full catalog listing.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	products, err := c.breaker.Execute(func() ([]Product, error) {
		return c.fetch(ctx)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	c.log.Ctx(ctx).Info("external catalog fetched", "count", len(products))
	return products, nil
}

func (c *Client) fetch(ctx context.Context) ([]Product, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrBadResponse, err)
	}
	return products, nil
}
