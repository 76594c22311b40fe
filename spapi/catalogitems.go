package spapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// =============================================================================
// Catalog Items API (2022-04-01)
// =============================================================================

// CatalogItem is one catalog entry. Attribute groups are kept raw; callers
// decode the ones they requested through IncludedData.
type CatalogItem struct {
	ASIN       string          `json:"asin"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	Summaries  []CatalogItemSummary `json:"summaries,omitempty"`
}

// CatalogItemSummary is the per-marketplace display summary.
type CatalogItemSummary struct {
	MarketplaceID string `json:"marketplaceId"`
	ItemName      string `json:"itemName"`
	Brand         string `json:"brand"`
	Manufacturer  string `json:"manufacturer"`
}

// CatalogItemsPage is one page of catalog search results.
type CatalogItemsPage struct {
	NumberOfResults int           `json:"numberOfResults"`
	Items           []CatalogItem `json:"items"`
	Pagination      struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination"`
}

// SearchCatalogItemsParams filters a catalog search. Identifiers and
// Keywords are mutually exclusive; Amazon rejects requests carrying both.
//
// Continuation contract: when PageToken is set, it is the only parameter
// sent besides the mandatory marketplace — other filters are suppressed.
type SearchCatalogItemsParams struct {
	Identifiers     []string
	IdentifiersType string
	Keywords        []string
	IncludedData    []string
	PageSize        int
	PageToken       string
}

func (p SearchCatalogItemsParams) values(defaultMarketplaceID string) url.Values {
	q := url.Values{}
	q.Set("marketplaceIds", defaultMarketplaceID)

	if p.PageToken != "" {
		q.Set("pageToken", p.PageToken)
		return q
	}

	setCSV(q, "identifiers", p.Identifiers)
	if p.IdentifiersType != "" {
		q.Set("identifiersType", p.IdentifiersType)
	}
	setCSV(q, "keywords", p.Keywords)
	setCSV(q, "includedData", p.IncludedData)
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

// SearchCatalogItems returns one page of catalog items matching the search.
func (c *Client) SearchCatalogItems(ctx context.Context, params SearchCatalogItemsParams) (*CatalogItemsPage, error) {
	var page CatalogItemsPage
	if err := c.get(ctx, apiCatalogItems, "/catalog/2022-04-01/items", params.values(c.marketplace.ID), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCatalogItem returns one catalog item by ASIN.
func (c *Client) GetCatalogItem(ctx context.Context, asin string, includedData []string) (*CatalogItem, error) {
	q := url.Values{}
	q.Set("marketplaceIds", c.marketplace.ID)
	setCSV(q, "includedData", includedData)

	var item CatalogItem
	if err := c.get(ctx, apiCatalogItems, "/catalog/2022-04-01/items/"+url.PathEscape(asin), q, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
