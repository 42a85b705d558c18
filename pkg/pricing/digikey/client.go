// Package digikey queries the Digi-Key v4 product search API for part
// availability and pricing. Parts are looked up by their Digi-Key product
// number (the "digikey#" order code) and fall back to the manufacturer
// part number as a keyword search.
package digikey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing/cache"
)

const (
	tokenURL  = "https://api.digikey.com/v1/oauth2/token"
	searchURL = "https://api.digikey.com/products/v4/search/keyword"

	orderCodeField = "digikey#"

	requestTimeout = 10 * time.Second
)

// Client talks to the Digi-Key v4 API. Authentication uses the OAuth2
// client-credentials flow; the token client refreshes transparently.
type Client struct {
	ClientID string
	HTTP     *http.Client
	Cache    *cache.Cache
	Log      *zap.SugaredLogger
}

func New(clientID, clientSecret string, c *cache.Cache, log *zap.SugaredLogger) *Client {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cfg.Client(context.Background())
	httpClient.Timeout = requestTimeout
	return &Client{
		ClientID: clientID,
		HTTP:     httpClient,
		Cache:    c,
		Log:      log,
	}
}

// Name identifies the supplier this client serves.
func (c *Client) Name() string { return pricing.SupplierDigiKey }

type searchRequest struct {
	Keywords string `json:"Keywords"`
	Limit    int    `json:"Limit"`
	Offset   int    `json:"Offset"`
}

type searchResponse struct {
	Products      []productData `json:"Products"`
	ProductsCount int           `json:"ProductsCount"`
	SearchLocale  struct {
		Currency string `json:"Currency"`
	} `json:"SearchLocaleUsed"`
}

type productData struct {
	Description struct {
		ProductDescription string `json:"ProductDescription"`
	} `json:"Description"`
	Manufacturer struct {
		Name string `json:"Name"`
	} `json:"Manufacturer"`
	ManufacturerProductNumber string `json:"ManufacturerProductNumber"`
	DatasheetURL              string `json:"DatasheetUrl"`
	ProductURL                string `json:"ProductUrl"`
	ProductStatus             struct {
		Status string `json:"Status"`
	} `json:"ProductStatus"`
	QuantityAvailable int                `json:"QuantityAvailable"`
	Variations        []productVariation `json:"ProductVariations"`
	Parameters        []struct {
		ParameterText string `json:"ParameterText"`
		ValueText     string `json:"ValueText"`
	} `json:"Parameters"`
	Classifications struct {
		RohsStatus string `json:"RohsStatus"`
	} `json:"Classifications"`
}

type productVariation struct {
	DigiKeyProductNumber        string       `json:"DigiKeyProductNumber"`
	MinimumOrderQuantity        int          `json:"MinimumOrderQuantity"`
	QuantityAvailableforPackage int          `json:"QuantityAvailableforPackageType"`
	StandardPricing             []priceBreak `json:"StandardPricing"`
}

type priceBreak struct {
	BreakQuantity int     `json:"BreakQuantity"`
	UnitPrice     float64 `json:"UnitPrice"`
}

// QueryPartGroups fills each group's Digi-Key distributor data. Groups with
// no usable part code are skipped silently; lookups that come back empty
// leave the group untouched and log a warning. Only credential problems
// abort the whole pass.
func (c *Client) QueryPartGroups(groups []*pricing.PartGroup, currency string) error {
	for _, g := range groups {
		mode, code := lookupCode(g)
		if code == "" {
			continue
		}
		part, err := c.search(mode, code, currency)
		if err != nil {
			if err == pricing.ErrBadCredentials {
				return fmt.Errorf("%w: check the DigiKey entry in your config", err)
			}
			c.Log.Warnf("Digi-Key lookup failed for part(s) '%s' with part number '%s': %v",
				strings.Join(g.Refs, ","), code, err)
			continue
		}
		if part == nil {
			c.Log.Warnf("No information found at DigiKey for part(s) '%s' with MPN '%s'.",
				strings.Join(g.Refs, ","), code)
			continue
		}
		fillGroup(g, part, currency)
	}
	return nil
}

func lookupCode(g *pricing.PartGroup) (mode, code string) {
	if v := g.Fields[orderCodeField]; v != "" {
		return "dk", v
	}
	if g.MPN != "" {
		return "mpn", g.MPN
	}
	return "", ""
}

func (c *Client) search(mode, code, currency string) (*productData, error) {
	var resp searchResponse
	if c.Cache.Load(mode, code, &resp) {
		return selectProduct(resp.Products, code), nil
	}

	body, err := json.Marshal(searchRequest{Keywords: code, Limit: 10})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-DIGIKEY-Client-Id", c.ClientID)
	req.Header.Set("X-DIGIKEY-Locale-Currency", currency)

	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, pricing.ErrBadCredentials
		}
		return nil, err
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, pricing.ErrBadCredentials
	default:
		return nil, fmt.Errorf("search returned HTTP %d", httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	c.Cache.Store(mode, code, &resp)
	return selectProduct(resp.Products, code), nil
}

// selectProduct prefers a product whose Digi-Key or manufacturer number
// exactly matches the search code. A keyword search can rank a cheaper
// near-match above the exact part.
func selectProduct(products []productData, code string) *productData {
	for i := range products {
		p := &products[i]
		if p.ManufacturerProductNumber == code {
			return p
		}
		for _, v := range p.Variations {
			if v.DigiKeyProductNumber == code {
				return p
			}
		}
	}
	if len(products) > 0 {
		return &products[0]
	}
	return nil
}

// manufacturerJSON is how the manufacturer lands in the extra info: a
// serialized object rather than the bare name. Consumers unwrap it and
// fall back to the raw string when parsing fails.
type manufacturerJSON struct {
	Value string `json:"value"`
}

func fillGroup(g *pricing.PartGroup, part *productData, currency string) {
	if part.DatasheetURL != "" {
		g.Datasheet = part.DatasheetURL
	}
	if part.ProductStatus.Status != "" {
		g.Lifecycle = strings.ToLower(part.ProductStatus.Status)
	}

	variation := selectVariation(part.Variations)

	dd := g.Distributor(pricing.SupplierDigiKey)
	if dd == nil {
		dd = &pricing.DistributorData{
			PriceTiers: map[int]decimal.Decimal{},
			ExtraInfo:  map[string]string{},
		}
		g.Distributors[pricing.SupplierDigiKey] = dd
	}

	dd.URL = part.ProductURL
	dd.Currency = currency
	dd.Stock = part.QuantityAvailable
	dd.StockNote = fmt.Sprintf("%d In Stock", part.QuantityAvailable)
	if variation != nil {
		dd.OrderCode = variation.DigiKeyProductNumber
		dd.MOQ = variation.MinimumOrderQuantity
		dd.QtyIncrement = variation.MinimumOrderQuantity
		if variation.QuantityAvailableforPackage > 0 {
			dd.Stock = variation.QuantityAvailableforPackage
			dd.StockNote = fmt.Sprintf("%d In Stock", variation.QuantityAvailableforPackage)
		}
		for _, pb := range variation.StandardPricing {
			dd.PriceTiers[pb.BreakQuantity] = decimal.NewFromFloat(pb.UnitPrice)
		}
	}

	if part.Manufacturer.Name != "" {
		raw, err := json.Marshal(manufacturerJSON{Value: part.Manufacturer.Name})
		if err == nil {
			dd.ExtraInfo["manufacturer"] = string(raw)
		} else {
			dd.ExtraInfo["manufacturer"] = part.Manufacturer.Name
		}
	}
	if desc := part.Description.ProductDescription; desc != "" {
		dd.ExtraInfo["desc"] = desc
	}
	if rohs := part.Classifications.RohsStatus; rohs != "" {
		dd.ExtraInfo["rohs"] = rohs
	}
}

// selectVariation picks the variation carrying price breaks, preferring one
// with stock. Cut-tape and reel listings for the same part arrive as
// separate variations.
func selectVariation(variations []productVariation) *productVariation {
	if len(variations) == 0 {
		return nil
	}
	var priced *productVariation
	for i := range variations {
		v := &variations[i]
		if len(v.StandardPricing) == 0 {
			continue
		}
		if v.QuantityAvailableforPackage > 0 {
			return v
		}
		if priced == nil {
			priced = v
		}
	}
	if priced != nil {
		return priced
	}
	return &variations[0]
}
