package spapi

import (
	"net/url"
	"strings"
	"time"
)

// Money is an amount in a marketplace currency. SP-API transmits amounts as
// strings to avoid float rounding.
type Money struct {
	CurrencyCode string `json:"CurrencyCode"`
	Amount       string `json:"Amount"`
}

// API group labels used for logging and metrics.
const (
	apiOrders       = "orders"
	apiFinances     = "finances"
	apiFBAInventory = "fbaInventory"
	apiCatalogItems = "catalogItems"
	apiReports      = "reports"
	apiSellers      = "sellers"
	apiFeeds        = "feeds"
	apiProductFees  = "productFees"
	apiPricing      = "productPricing"
)

// setCSV sets a comma-separated list parameter when values are present.
func setCSV(q url.Values, name string, values []string) {
	if len(values) > 0 {
		q.Set(name, strings.Join(values, ","))
	}
}

// setTime sets an RFC 3339 UTC timestamp parameter when t is non-zero.
func setTime(q url.Values, name string, t time.Time) {
	if !t.IsZero() {
		q.Set(name, t.UTC().Format(time.RFC3339))
	}
}
