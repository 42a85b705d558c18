// Package mouser queries the Mouser Search API for part pricing and
// stock. Lookups prefer an explicit "mouser#" symbol field (a Mouser
// order code) and fall back to the manufacturer part number.
package mouser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing/cache"
)

const searchURL = "https://api.mouser.com/api/v1/search/partnumber"

// Symbol field naming a Mouser order code directly.
const orderCodeField = "mouser#"

// Default per-request timeout. A slow request degrades one part to
// blanks, never the run.
const requestTimeout = 10 * time.Second

// Availability strings look like "1,234 In Stock" or occasionally lead
// with a bare count.
var (
	inStockRe1 = regexp.MustCompile(`^([0-9,]+)\s+In Stock`)
	inStockRe2 = regexp.MustCompile(`^([0-9,]+)`)
)

// Client queries Mouser. Cache may be nil.
type Client struct {
	Key   string
	HTTP  *http.Client
	Cache *cache.Cache
	Log   *zap.SugaredLogger
}

// New creates a Mouser client with the default request timeout.
func New(key string, c *cache.Cache, log *zap.SugaredLogger) *Client {
	return &Client{
		Key:   key,
		HTTP:  &http.Client{Timeout: requestTimeout},
		Cache: c,
		Log:   log,
	}
}

// Name returns the canonical supplier key.
func (c *Client) Name() string { return pricing.SupplierMouser }

// Wire format of the Mouser part search.
type searchRequest struct {
	SearchByPartRequest struct {
		MouserPartNumber  string `json:"mouserPartNumber"`
		PartSearchOptions string `json:"partSearchOptions"`
	} `json:"SearchByPartRequest"`
}

type searchResponse struct {
	Errors []struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Errors"`
	SearchResults struct {
		NumberOfResult int        `json:"NumberOfResult"`
		Parts          []partData `json:"Parts"`
	} `json:"SearchResults"`
}

type partData struct {
	Availability           string `json:"Availability"`
	DataSheetURL           string `json:"DataSheetUrl"`
	LifecycleStatus        string `json:"LifecycleStatus"`
	Manufacturer           string `json:"Manufacturer"`
	ManufacturerPartNumber string `json:"ManufacturerPartNumber"`
	Min                    string `json:"Min"`
	Mult                   string `json:"Mult"`
	MouserPartNumber       string `json:"MouserPartNumber"`
	ProductDetailURL       string `json:"ProductDetailUrl"`
	PriceBreaks            []struct {
		Quantity int    `json:"Quantity"`
		Price    string `json:"Price"`
		Currency string `json:"Currency"`
	} `json:"PriceBreaks"`
}

// QueryPartGroups looks up every group carrying a part number and fills
// in its Mouser distributor data. Missed lookups leave the group
// untouched; only an authentication failure aborts.
func (c *Client) QueryPartGroups(groups []*pricing.PartGroup, currency string) error {
	for _, g := range groups {
		code, mode := lookupCode(g)
		if code == "" {
			continue
		}

		part, err := c.search(mode, code)
		if err != nil {
			if err == pricing.ErrBadCredentials {
				return fmt.Errorf("%w: check the Mouser entry in your config", err)
			}
			c.Log.Warnf("Mouser lookup failed for part(s) '%s' with part number '%s': %v",
				strings.Join(g.Refs, ","), code, err)
			continue
		}
		if part == nil {
			c.Log.Warnf("No information found at Mouser for part(s) '%s' with MPN '%s'.",
				strings.Join(g.Refs, ","), code)
			continue
		}

		fillGroup(g, part, currency)
	}
	return nil
}

func lookupCode(g *pricing.PartGroup) (code, mode string) {
	if oc := g.Fields[orderCodeField]; oc != "" {
		return oc, "mou"
	}
	if g.MPN != "" {
		return g.MPN, "mpn"
	}
	return "", ""
}

// search resolves a part number via the cache or a live API call.
// A nil part with nil error means "nothing found" (a per-part miss).
func (c *Client) search(mode, code string) (*partData, error) {
	if c.Cache != nil {
		var cached partData
		if c.Cache.Load(mode, code, &cached) {
			return &cached, nil
		}
	}

	var req searchRequest
	req.SearchByPartRequest.MouserPartNumber = code
	req.SearchByPartRequest.PartSearchOptions = "exact"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, searchURL+"?apiKey="+c.Key, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, pricing.ErrBadCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mouser API returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("malformed mouser response: %w", err)
	}
	for _, e := range sr.Errors {
		if strings.Contains(strings.ToLower(e.Message), "api key") {
			return nil, pricing.ErrBadCredentials
		}
	}
	if len(sr.Errors) > 0 {
		return nil, fmt.Errorf("mouser API error: %s", sr.Errors[0].Message)
	}

	part := selectPart(sr.SearchResults.Parts, code)
	if part == nil {
		return nil, nil
	}
	if c.Cache != nil {
		c.Cache.Store(mode, code, part)
	}
	return part, nil
}

// selectPart prefers an exact part-number match over the first result.
func selectPart(parts []partData, code string) *partData {
	for i := range parts {
		if parts[i].MouserPartNumber == code || parts[i].ManufacturerPartNumber == code {
			return &parts[i]
		}
	}
	if len(parts) > 0 {
		return &parts[0]
	}
	return nil
}

func fillGroup(g *pricing.PartGroup, part *partData, currency string) {
	if g.Datasheet == "" && part.DataSheetURL != "" {
		g.Datasheet = part.DataSheetURL
	}
	if g.Lifecycle == "" && part.LifecycleStatus != "" {
		g.Lifecycle = strings.ToLower(part.LifecycleStatus)
	}

	dd := &pricing.DistributorData{
		OrderCode:  part.MouserPartNumber,
		URL:        part.ProductDetailURL,
		StockNote:  part.Availability,
		Currency:   currency,
		PriceTiers: make(map[int]decimal.Decimal),
		ExtraInfo:  make(map[string]string),
	}
	dd.MOQ = parseCount(part.Min)
	dd.QtyIncrement = parseCount(part.Mult)
	if dd.QtyIncrement == 0 {
		dd.QtyIncrement = dd.MOQ
	}

	m := inStockRe1.FindStringSubmatch(part.Availability)
	if m == nil {
		m = inStockRe2.FindStringSubmatch(part.Availability)
	}
	if m != nil {
		dd.Stock = parseCount(m[1])
	}

	for _, pb := range part.PriceBreaks {
		if price, err := ParsePrice(pb.Price); err == nil {
			dd.PriceTiers[pb.Quantity] = price
		}
		if dd.Currency == "" && pb.Currency != "" {
			dd.Currency = pb.Currency
		}
	}
	if len(part.PriceBreaks) > 0 && part.PriceBreaks[0].Currency != "" {
		dd.Currency = part.PriceBreaks[0].Currency
	}

	if part.Manufacturer != "" {
		dd.ExtraInfo["manufacturer"] = part.Manufacturer
	}

	g.Distributors[pricing.SupplierMouser] = dd
}
