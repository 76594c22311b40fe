// Package marketplaces contains Amazon's fixed Selling Partner API endpoint
// topology: the mapping from country code to marketplace ID, AWS region and
// regional API endpoint. The table is built once at package init and never
// mutated.
package marketplaces

import (
	"fmt"
	"sort"
)

// Selling region group names.
const (
	SellingRegionNorthAmerica = "North America"
	SellingRegionEurope       = "Europe"
	SellingRegionFarEast      = "Far East"
)

// Marketplace describes a single Amazon marketplace.
type Marketplace struct {
	// ID is the Amazon marketplace identifier (e.g. "ATVPDKIKX0DER" for US).
	ID string

	// CountryCode is the ISO 3166-1 alpha-2 country code (e.g. "US").
	CountryCode string

	// SellingRegion is the selling region group this marketplace belongs to.
	SellingRegion string

	// Region is the AWS region SP-API requests for this marketplace are
	// signed against (e.g. "us-east-1").
	Region string

	// Endpoint is the regional SP-API endpoint, scheme included.
	Endpoint string
}

// regionGroup holds the shared region/endpoint pair for a selling region.
type regionGroup struct {
	region   string
	endpoint string
	ids      map[string]string // country code -> marketplace ID
}

// https://developer-docs.amazon.com/sp-api/docs/sp-api-endpoints
var groups = map[string]regionGroup{
	SellingRegionNorthAmerica: {
		region:   "us-east-1",
		endpoint: "https://sellingpartnerapi-na.amazon.com",
		ids: map[string]string{
			"CA": "A2EUQ1WTGCTBG2",
			"US": "ATVPDKIKX0DER",
			"MX": "A1AM78C64UM0Y8",
			"BR": "A2Q3Y263D00KWC",
		},
	},
	SellingRegionEurope: {
		region:   "eu-west-1",
		endpoint: "https://sellingpartnerapi-eu.amazon.com",
		ids: map[string]string{
			"ES": "A1RKKUPIHCS9HS",
			"GB": "A1F83G8C2ARO7P",
			"FR": "A13V1IB3VIYZZH",
			"NL": "A1805IZSGTT6HS",
			"DE": "A1PA6795UKMFR9",
			"IT": "APJ6JRA9NG5V4",
			"SE": "A2NODRKZP88ZB9",
			"PL": "A1C3SOZRARQ6R3",
			"EG": "ARBP9OOSHTCHU",
			"TR": "A33AVAJ2PDY3EV",
			"SA": "A17E79C6D8DWNP",
			"AE": "A2VIGQ35RCS4UG",
			"IN": "A21TJRUUN4KGV",
		},
	},
	SellingRegionFarEast: {
		region:   "us-west-2",
		endpoint: "https://sellingpartnerapi-fe.amazon.com",
		ids: map[string]string{
			"SG": "A19VAU5U5O7RUS",
			"AU": "A39IBJ37TRP1C6",
			"JP": "A1VC38T7YXB528",
		},
	},
}

// byCountry is the flattened lookup table, built once at init.
var byCountry = func() map[string]Marketplace {
	m := make(map[string]Marketplace)
	for sellingRegion, g := range groups {
		for cc, id := range g.ids {
			m[cc] = Marketplace{
				ID:            id,
				CountryCode:   cc,
				SellingRegion: sellingRegion,
				Region:        g.region,
				Endpoint:      g.endpoint,
			}
		}
	}
	return m
}()

// ByCountry returns the marketplace for an ISO country code.
func ByCountry(countryCode string) (Marketplace, error) {
	mp, ok := byCountry[countryCode]
	if !ok {
		return Marketplace{}, fmt.Errorf("unknown marketplace country code %q", countryCode)
	}
	return mp, nil
}

// CountryCodes returns every known country code in sorted order.
func CountryCodes() []string {
	codes := make([]string, 0, len(byCountry))
	for cc := range byCountry {
		codes = append(codes, cc)
	}
	sort.Strings(codes)
	return codes
}
