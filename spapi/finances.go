package spapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// =============================================================================
// Finances API (v0)
// =============================================================================

// FinancialEventGroup summarizes a settlement period.
type FinancialEventGroup struct {
	FinancialEventGroupID   string `json:"FinancialEventGroupId"`
	ProcessingStatus        string `json:"ProcessingStatus"`
	FundTransferStatus      string `json:"FundTransferStatus"`
	OriginalTotal           *Money `json:"OriginalTotal,omitempty"`
	ConvertedTotal          *Money `json:"ConvertedTotal,omitempty"`
	FinancialEventGroupStart string `json:"FinancialEventGroupStart"`
	FinancialEventGroupEnd   string `json:"FinancialEventGroupEnd"`
}

// FinancialEvents carries the per-category event lists. The lists themselves
// are kept raw; callers decode the categories they care about.
type FinancialEvents struct {
	ShipmentEventList   json.RawMessage `json:"ShipmentEventList,omitempty"`
	RefundEventList     json.RawMessage `json:"RefundEventList,omitempty"`
	ServiceFeeEventList json.RawMessage `json:"ServiceFeeEventList,omitempty"`
	AdjustmentEventList json.RawMessage `json:"AdjustmentEventList,omitempty"`
}

// FinancialEventGroupsList is one page of financial event groups.
type FinancialEventGroupsList struct {
	FinancialEventGroupList []FinancialEventGroup `json:"FinancialEventGroupList"`
	NextToken               string                `json:"NextToken"`
}

// FinancialEventsList is one page of financial events.
type FinancialEventsList struct {
	FinancialEvents FinancialEvents `json:"FinancialEvents"`
	NextToken       string          `json:"NextToken"`
}

// ListFinancialEventsParams filters a ListFinancialEvents call.
//
// Continuation contract: when NextToken is set, it is the only parameter
// sent — every other filter is suppressed for that request.
type ListFinancialEventsParams struct {
	PostedAfter       time.Time
	PostedBefore      time.Time
	MaxResultsPerPage int
	NextToken         string
}

func (p ListFinancialEventsParams) values() url.Values {
	q := url.Values{}

	if p.NextToken != "" {
		q.Set("NextToken", p.NextToken)
		return q
	}

	setTime(q, "PostedAfter", p.PostedAfter)
	setTime(q, "PostedBefore", p.PostedBefore)
	if p.MaxResultsPerPage > 0 {
		q.Set("MaxResultsPerPage", strconv.Itoa(p.MaxResultsPerPage))
	}
	return q
}

type listFinancialEventGroupsResponse struct {
	Payload FinancialEventGroupsList `json:"payload"`
}

// ListFinancialEventGroups returns one page of financial event groups whose
// start date falls in the given window.
func (c *Client) ListFinancialEventGroups(ctx context.Context, params ListFinancialEventsParams) (*FinancialEventGroupsList, error) {
	q := params.values()
	// The group listing names its window parameters differently.
	if params.NextToken == "" {
		if v := q.Get("PostedAfter"); v != "" {
			q.Del("PostedAfter")
			q.Set("FinancialEventGroupStartedAfter", v)
		}
		if v := q.Get("PostedBefore"); v != "" {
			q.Del("PostedBefore")
			q.Set("FinancialEventGroupStartedBefore", v)
		}
	}

	var resp listFinancialEventGroupsResponse
	if err := c.get(ctx, apiFinances, "/finances/v0/financialEventGroups", q, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

type listFinancialEventsResponse struct {
	Payload FinancialEventsList `json:"payload"`
}

// ListFinancialEvents returns one page of financial events posted in the
// given window.
func (c *Client) ListFinancialEvents(ctx context.Context, params ListFinancialEventsParams) (*FinancialEventsList, error) {
	var resp listFinancialEventsResponse
	if err := c.get(ctx, apiFinances, "/finances/v0/financialEvents", params.values(), &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}
