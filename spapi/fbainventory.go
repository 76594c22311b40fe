package spapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// =============================================================================
// FBA Inventory API (v1)
// =============================================================================

// InventorySummary describes FBA stock for one SKU.
type InventorySummary struct {
	ASIN             string            `json:"asin"`
	FNSKU            string            `json:"fnSku"`
	SellerSKU        string            `json:"sellerSku"`
	Condition        string            `json:"condition"`
	LastUpdatedTime  string            `json:"lastUpdatedTime"`
	ProductName      string            `json:"productName"`
	TotalQuantity    int               `json:"totalQuantity"`
	InventoryDetails *InventoryDetails `json:"inventoryDetails,omitempty"`
}

// InventoryDetails breaks the total down by fulfillability.
type InventoryDetails struct {
	FulfillableQuantity      int `json:"fulfillableQuantity"`
	InboundWorkingQuantity   int `json:"inboundWorkingQuantity"`
	InboundShippedQuantity   int `json:"inboundShippedQuantity"`
	InboundReceivingQuantity int `json:"inboundReceivingQuantity"`
}

// InventorySummariesList is one page of inventory summaries.
type InventorySummariesList struct {
	Granularity struct {
		GranularityType string `json:"granularityType"`
		GranularityID   string `json:"granularityId"`
	} `json:"granularity"`
	InventorySummaries []InventorySummary `json:"inventorySummaries"`
}

// GetInventorySummariesParams filters a GetInventorySummaries call.
//
// Continuation contract: when NextToken is set, it is the only parameter
// sent besides the mandatory granularity — other filters are suppressed.
type GetInventorySummariesParams struct {
	SellerSKUs     []string
	StartDateTime  time.Time
	Details        bool
	MarketplaceIDs []string
	NextToken      string
}

func (p GetInventorySummariesParams) values(defaultMarketplaceID string) url.Values {
	q := url.Values{}
	q.Set("granularityType", "Marketplace")
	q.Set("granularityId", defaultMarketplaceID)

	if p.NextToken != "" {
		q.Set("nextToken", p.NextToken)
		return q
	}

	ids := p.MarketplaceIDs
	if len(ids) == 0 {
		ids = []string{defaultMarketplaceID}
	}
	setCSV(q, "marketplaceIds", ids)
	setCSV(q, "sellerSkus", p.SellerSKUs)
	setTime(q, "startDateTime", p.StartDateTime)
	if p.Details {
		q.Set("details", strconv.FormatBool(p.Details))
	}
	return q
}

type getInventorySummariesResponse struct {
	Payload    InventorySummariesList `json:"payload"`
	Pagination struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination"`
}

// GetInventorySummaries returns one page of FBA inventory summaries, along
// with the token for the next page ("" when exhausted).
func (c *Client) GetInventorySummaries(ctx context.Context, params GetInventorySummariesParams) (*InventorySummariesList, string, error) {
	var resp getInventorySummariesResponse
	if err := c.get(ctx, apiFBAInventory, "/fba/inventory/v1/summaries", params.values(c.marketplace.ID), &resp); err != nil {
		return nil, "", err
	}
	return &resp.Payload, resp.Pagination.NextToken, nil
}
