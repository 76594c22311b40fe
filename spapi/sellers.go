package spapi

import "context"

// =============================================================================
// Sellers API (v1)
// =============================================================================

// MarketplaceParticipation pairs a marketplace with the seller's
// participation status in it.
type MarketplaceParticipation struct {
	Marketplace struct {
		ID                  string `json:"id"`
		CountryCode         string `json:"countryCode"`
		Name                string `json:"name"`
		DefaultCurrencyCode string `json:"defaultCurrencyCode"`
		DefaultLanguageCode string `json:"defaultLanguageCode"`
		DomainName          string `json:"domainName"`
	} `json:"marketplace"`
	Participation struct {
		IsParticipating      bool `json:"isParticipating"`
		HasSuspendedListings bool `json:"hasSuspendedListings"`
	} `json:"participation"`
}

// GetMarketplaceParticipations lists every marketplace the seller can sell
// in. It is also the cheapest authenticated call, which makes it a useful
// connectivity check.
func (c *Client) GetMarketplaceParticipations(ctx context.Context) ([]MarketplaceParticipation, error) {
	var resp struct {
		Payload []MarketplaceParticipation `json:"payload"`
	}
	if err := c.get(ctx, apiSellers, "/sellers/v1/marketplaceParticipations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}
