package spapi

import (
	"context"
	"encoding/json"
	"net/url"
)

// =============================================================================
// Product Pricing API (v0)
// =============================================================================

// PriceResult is one item's pricing information. Offer and product payloads
// vary widely by item type, so they are kept raw for the caller to decode.
type PriceResult struct {
	Status  string          `json:"status"`
	SKU     string          `json:"SellerSKU"`
	ASIN    string          `json:"ASIN"`
	Product json.RawMessage `json:"Product"`
}

// ItemType selects the identifier namespace for pricing lookups.
type ItemType string

const (
	ItemTypeASIN ItemType = "Asin"
	ItemTypeSKU  ItemType = "Sku"
)

func (c *Client) pricing(ctx context.Context, path string, itemType ItemType, ids []string, extra url.Values) ([]PriceResult, error) {
	q := url.Values{}
	q.Set("MarketplaceId", c.marketplace.ID)
	q.Set("ItemType", string(itemType))
	switch itemType {
	case ItemTypeASIN:
		setCSV(q, "Asins", ids)
	case ItemTypeSKU:
		setCSV(q, "Skus", ids)
	}
	for name, values := range extra {
		for _, v := range values {
			q.Add(name, v)
		}
	}

	var resp struct {
		Payload []PriceResult `json:"payload"`
	}
	if err := c.get(ctx, apiPricing, path, q, &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

// GetPricing returns pricing for up to twenty ASINs or SKUs.
func (c *Client) GetPricing(ctx context.Context, itemType ItemType, ids []string) ([]PriceResult, error) {
	return c.pricing(ctx, "/products/pricing/v0/price", itemType, ids, nil)
}

// GetCompetitivePricing returns competitive pricing for up to twenty ASINs
// or SKUs.
func (c *Client) GetCompetitivePricing(ctx context.Context, itemType ItemType, ids []string) ([]PriceResult, error) {
	return c.pricing(ctx, "/products/pricing/v0/competitivePrice", itemType, ids, nil)
}
