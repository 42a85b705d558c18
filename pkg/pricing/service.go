package pricing

import (
	"errors"
	"net"
	"strings"
	"time"
)

// Supplier keys are the lowercase canonical names used throughout the
// pipeline; display names are what lands in BOM cells.
const (
	SupplierMouser  = "mouser"
	SupplierDigiKey = "digikey"
)

// ErrBadCredentials marks an authentication failure against a supplier
// API. Unlike a missed part lookup this is a configuration error and
// aborts the run.
var ErrBadCredentials = errors.New("supplier API rejected the configured credentials")

var supplierDisplayNames = map[string]string{
	SupplierMouser:  "Mouser",
	SupplierDigiKey: "DigiKey",
}

// SupportedSuppliers lists the suppliers a BOM can be priced against.
func SupportedSuppliers() []string {
	return []string{"Mouser", "DigiKey"}
}

// IsSupportedSupplier reports whether name is a known supplier, in any
// letter case.
func IsSupportedSupplier(name string) bool {
	_, ok := supplierDisplayNames[strings.ToLower(name)]
	return ok
}

// DisplayName returns the label a supplier gets in BOM cells. Unknown
// supplier keys get a generic label rather than leaking the raw key.
func DisplayName(key string) string {
	if name, ok := supplierDisplayNames[strings.ToLower(key)]; ok {
		return name
	}
	return "Supplier"
}

// The three currencies the BOM output supports.
var currencySymbols = map[string]string{
	"gbp": "£",
	"usd": "$",
	"eur": "€",
}

// SupportedCurrencies lists the accepted currency codes.
func SupportedCurrencies() []string {
	return []string{"GBP", "USD", "EUR"}
}

// IsSupportedCurrency reports whether code names a supported currency.
func IsSupportedCurrency(code string) bool {
	_, ok := currencySymbols[strings.ToLower(code)]
	return ok
}

// CurrencySymbol returns the display symbol for a currency code, or ""
// when the code is not supported.
func CurrencySymbol(code string) string {
	return currencySymbols[strings.ToLower(code)]
}

// Client is one supplier's query implementation. QueryPartGroups fills
// each group's Distributors entry in place; a missed lookup leaves the
// entry absent, and only credential-level failures return an error.
type Client interface {
	Name() string
	QueryPartGroups(groups []*PartGroup, currency string) error
}

// HasInternet probes for connectivity with a short TCP dial. Offline runs
// skip pricing and downloads instead of failing.
func HasInternet(address string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
