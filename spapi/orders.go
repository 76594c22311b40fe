package spapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// =============================================================================
// Orders API (v0)
// =============================================================================

// Order is a marketplace order, modeled to the depth the SDK reads.
type Order struct {
	AmazonOrderID          string `json:"AmazonOrderId"`
	PurchaseDate           string `json:"PurchaseDate"`
	LastUpdateDate         string `json:"LastUpdateDate"`
	OrderStatus            string `json:"OrderStatus"`
	FulfillmentChannel     string `json:"FulfillmentChannel"`
	SalesChannel           string `json:"SalesChannel"`
	MarketplaceID          string `json:"MarketplaceId"`
	NumberOfItemsShipped   int    `json:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int    `json:"NumberOfItemsUnshipped"`
	OrderTotal             *Money `json:"OrderTotal,omitempty"`
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	ASIN            string `json:"ASIN"`
	SellerSKU       string `json:"SellerSKU"`
	OrderItemID     string `json:"OrderItemId"`
	Title           string `json:"Title"`
	QuantityOrdered int    `json:"QuantityOrdered"`
	QuantityShipped int    `json:"QuantityShipped"`
	ItemPrice       *Money `json:"ItemPrice,omitempty"`
}

// OrdersList is one page of orders.
type OrdersList struct {
	Orders    []Order `json:"Orders"`
	NextToken string  `json:"NextToken"`
}

// OrderItemsList is one page of order items.
type OrderItemsList struct {
	AmazonOrderID string      `json:"AmazonOrderId"`
	OrderItems    []OrderItem `json:"OrderItems"`
	NextToken     string      `json:"NextToken"`
}

// GetOrdersParams filters a GetOrders call.
//
// Continuation contract: when NextToken is set, it is the only parameter
// sent — every other filter is suppressed for that request. Amazon binds the
// original filters to the token server-side.
type GetOrdersParams struct {
	CreatedAfter        time.Time
	CreatedBefore       time.Time
	LastUpdatedAfter    time.Time
	OrderStatuses       []string
	FulfillmentChannels []string
	MarketplaceIDs      []string
	MaxResultsPerPage   int
	NextToken           string
}

// values builds the query, defaulting MarketplaceIds to the client's
// marketplace when none are given.
func (p GetOrdersParams) values(defaultMarketplaceID string) url.Values {
	q := url.Values{}

	if p.NextToken != "" {
		q.Set("NextToken", p.NextToken)
		return q
	}

	ids := p.MarketplaceIDs
	if len(ids) == 0 {
		ids = []string{defaultMarketplaceID}
	}
	setCSV(q, "MarketplaceIds", ids)
	setTime(q, "CreatedAfter", p.CreatedAfter)
	setTime(q, "CreatedBefore", p.CreatedBefore)
	setTime(q, "LastUpdatedAfter", p.LastUpdatedAfter)
	setCSV(q, "OrderStatuses", p.OrderStatuses)
	setCSV(q, "FulfillmentChannels", p.FulfillmentChannels)
	if p.MaxResultsPerPage > 0 {
		q.Set("MaxResultsPerPage", strconv.Itoa(p.MaxResultsPerPage))
	}
	return q
}

type getOrdersResponse struct {
	Payload OrdersList `json:"payload"`
}

// GetOrders returns one page of orders matching the filters.
func (c *Client) GetOrders(ctx context.Context, params GetOrdersParams) (*OrdersList, error) {
	var resp getOrdersResponse
	if err := c.get(ctx, apiOrders, "/orders/v0/orders", params.values(c.marketplace.ID), &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

// GetAllOrders walks NextToken pagination to exhaustion and returns every
// matching order. Follow-up pages are requested with the token alone, per
// the continuation contract on GetOrdersParams.
func (c *Client) GetAllOrders(ctx context.Context, params GetOrdersParams) ([]Order, error) {
	var orders []Order

	for {
		page, err := c.GetOrders(ctx, params)
		if err != nil {
			return nil, err
		}
		orders = append(orders, page.Orders...)

		if page.NextToken == "" {
			return orders, nil
		}
		params = GetOrdersParams{NextToken: page.NextToken}
	}
}

type getOrderResponse struct {
	Payload Order `json:"payload"`
}

// GetOrder returns one order by its Amazon order ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var resp getOrderResponse
	if err := c.get(ctx, apiOrders, "/orders/v0/orders/"+url.PathEscape(orderID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

type getOrderItemsResponse struct {
	Payload OrderItemsList `json:"payload"`
}

// GetOrderItems returns one page of line items for an order. Pass the page's
// NextToken to fetch the next page; the token is then the only parameter sent.
func (c *Client) GetOrderItems(ctx context.Context, orderID, nextToken string) (*OrderItemsList, error) {
	q := url.Values{}
	if nextToken != "" {
		q.Set("NextToken", nextToken)
	}

	var resp getOrderItemsResponse
	if err := c.get(ctx, apiOrders, "/orders/v0/orders/"+url.PathEscape(orderID)+"/orderItems", q, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}
