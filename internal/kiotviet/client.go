package kiotviet

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultPageSize = 100

// FetchError reports a failed API request: a transport error or a non-2xx
// response. StatusCode is zero when the request never reached the server.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kiotviet: %s returned status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("kiotviet: %s request failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config holds KiotViet client settings. The limiters pace consecutive page
// requests; pass nil to use the defaults (one list page per 300ms, one invoice
// page per second).
type Config struct {
	BaseURL        string
	Retailer       string
	HTTPClient     *http.Client
	PageLimiter    *rate.Limiter
	InvoiceLimiter *rate.Limiter
}

// Client talks to the KiotViet public API. It issues one blocking request at a
// time; pagination is strictly sequential.
type Client struct {
	baseURL        string
	retailer       string
	http           *http.Client
	pageLimiter    *rate.Limiter
	invoiceLimiter *rate.Limiter
}

// NewClient creates a new KiotViet API client
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	pageLimiter := cfg.PageLimiter
	if pageLimiter == nil {
		pageLimiter = rate.NewLimiter(rate.Every(300*time.Millisecond), 1)
	}

	invoiceLimiter := cfg.InvoiceLimiter
	if invoiceLimiter == nil {
		invoiceLimiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		retailer:       cfg.Retailer,
		http:           httpClient,
		pageLimiter:    pageLimiter,
		invoiceLimiter: invoiceLimiter,
	}
}

// getPage performs a single authenticated GET and decodes the JSON body
func (c *Client) getPage(ctx context.Context, token, endpoint string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Retailer", c.retailer)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// FetchAllProducts pages through GET /products until the reported total is
// reached. The total from the first page is trusted for the whole fetch; a
// page that comes back empty before then ends the fetch cleanly, since the
// upstream count can be approximate.
func (c *Client) FetchAllProducts(ctx context.Context, token string) ([]Product, error) {
	log.Println("🔄 Starting product fetch from KiotViet API...")

	var all []Product
	currentItem := 0
	total := 0
	page := 1

	for {
		if err := c.pageLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(defaultPageSize))
		query.Set("currentItem", strconv.Itoa(currentItem))
		query.Set("includeInventory", "true")

		var resp struct {
			Total int       `json:"total"`
			Data  []Product `json:"data"`
		}
		if err := c.getPage(ctx, token, "/products", query, &resp); err != nil {
			return nil, err
		}

		if page == 1 {
			total = resp.Total
		}
		if len(resp.Data) == 0 {
			break
		}

		all = append(all, resp.Data...)
		log.Printf("📦 Products page %d: %d fetched (%d/%d)", page, len(resp.Data), len(all), total)

		currentItem += defaultPageSize
		page++
		if currentItem >= total {
			break
		}
	}

	log.Printf("✅ Product fetch complete: %d products retrieved", len(all))
	return all, nil
}

// FetchAllCustomers pages through GET /customers, same contract as
// FetchAllProducts.
func (c *Client) FetchAllCustomers(ctx context.Context, token string) ([]Customer, error) {
	log.Println("🔄 Starting customer fetch from KiotViet API...")

	var all []Customer
	currentItem := 0
	total := 0
	page := 1

	for {
		if err := c.pageLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(defaultPageSize))
		query.Set("currentItem", strconv.Itoa(currentItem))
		query.Set("includeCustomerGroup", "true")

		var resp struct {
			Total int        `json:"total"`
			Data  []Customer `json:"data"`
		}
		if err := c.getPage(ctx, token, "/customers", query, &resp); err != nil {
			return nil, err
		}

		if page == 1 {
			total = resp.Total
		}
		if len(resp.Data) == 0 {
			break
		}

		all = append(all, resp.Data...)
		log.Printf("👤 Customers page %d: %d fetched (%d/%d)", page, len(resp.Data), len(all), total)

		currentItem += defaultPageSize
		page++
		if currentItem >= total {
			break
		}
	}

	log.Printf("✅ Customer fetch complete: %d customers retrieved", len(all))
	return all, nil
}

// FetchInvoicesForRange fetches one page of invoices whose purchase date falls
// in [start, end]. Payments are included in the response. Callers drive the
// pagination themselves; the invoice limiter paces consecutive calls.
func (c *Client) FetchInvoicesForRange(ctx context.Context, token string, start, end time.Time, pageSize, currentItem int) (*InvoiceList, error) {
	if err := c.invoiceLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("currentItem", strconv.Itoa(currentItem))
	query.Set("includePayment", "true")
	query.Set("fromPurchaseDate", start.Format("2006-01-02T15:04:05"))
	query.Set("toPurchaseDate", end.Format("2006-01-02T15:04:05"))

	var resp InvoiceList
	if err := c.getPage(ctx, token, "/invoices", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
