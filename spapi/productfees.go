package spapi

import (
	"context"
	"encoding/json"
	"net/url"
)

// =============================================================================
// Product Fees API (v0)
// =============================================================================

// PriceToEstimateFees carries the listing price used for a fee estimate.
type PriceToEstimateFees struct {
	ListingPrice Money  `json:"ListingPrice"`
	Shipping     *Money `json:"Shipping,omitempty"`
}

// FeesEstimateRequest describes one fee estimate to compute.
type FeesEstimateRequest struct {
	MarketplaceID       string              `json:"MarketplaceId"`
	PriceToEstimateFees PriceToEstimateFees `json:"PriceToEstimateFees"`
	Identifier          string              `json:"Identifier"`
	IsAmazonFulfilled   bool                `json:"IsAmazonFulfilled"`
}

// FeesEstimate is the computed fee breakdown for one listing price.
type FeesEstimate struct {
	TimeOfFeesEstimation string          `json:"TimeOfFeesEstimation"`
	TotalFeesEstimate    *Money          `json:"TotalFeesEstimate"`
	FeeDetailList        json.RawMessage `json:"FeeDetailList"`
}

// FeesEstimateResult wraps an estimate together with its request status.
type FeesEstimateResult struct {
	Status       string        `json:"Status"`
	FeesEstimate *FeesEstimate `json:"FeesEstimate"`
	Error        *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Error"`
}

type feesEstimateEnvelope struct {
	Payload struct {
		FeesEstimateResult FeesEstimateResult `json:"FeesEstimateResult"`
	} `json:"payload"`
}

func (c *Client) getFeesEstimate(ctx context.Context, path string, req FeesEstimateRequest) (*FeesEstimateResult, error) {
	if req.MarketplaceID == "" {
		req.MarketplaceID = c.marketplace.ID
	}
	body := map[string]FeesEstimateRequest{"FeesEstimateRequest": req}

	var resp feesEstimateEnvelope
	if err := c.post(ctx, apiProductFees, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload.FeesEstimateResult, nil
}

// GetMyFeesEstimateForSKU estimates selling fees for one of the seller's own
// SKUs at the given price.
func (c *Client) GetMyFeesEstimateForSKU(ctx context.Context, sku string, req FeesEstimateRequest) (*FeesEstimateResult, error) {
	return c.getFeesEstimate(ctx, "/products/fees/v0/listings/"+url.PathEscape(sku)+"/feesEstimate", req)
}

// GetMyFeesEstimateForASIN estimates selling fees for an ASIN at the given
// price.
func (c *Client) GetMyFeesEstimateForASIN(ctx context.Context, asin string, req FeesEstimateRequest) (*FeesEstimateResult, error) {
	return c.getFeesEstimate(ctx, "/products/fees/v0/items/"+url.PathEscape(asin)+"/feesEstimate", req)
}
