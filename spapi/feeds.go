package spapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// =============================================================================
// Feeds API (2021-06-30)
// =============================================================================

// Feed describes a submitted feed and its processing state.
type Feed struct {
	FeedID               string   `json:"feedId"`
	FeedType             string   `json:"feedType"`
	ProcessingStatus     string   `json:"processingStatus"`
	MarketplaceIDs       []string `json:"marketplaceIds"`
	CreatedTime          string   `json:"createdTime"`
	ResultFeedDocumentID string   `json:"resultFeedDocumentId"`
}

// FeedDocument is the upload target for feed content.
type FeedDocument struct {
	FeedDocumentID string `json:"feedDocumentId"`
	URL            string `json:"url"`
}

// CreateFeedSpec submits a previously uploaded document as a feed.
type CreateFeedSpec struct {
	FeedType            string   `json:"feedType"`
	MarketplaceIDs      []string `json:"marketplaceIds"`
	InputFeedDocumentID string   `json:"inputFeedDocumentId"`
}

// CreateFeedDocument reserves an upload destination for feed content of the
// given content type.
func (c *Client) CreateFeedDocument(ctx context.Context, contentType string) (*FeedDocument, error) {
	body := map[string]string{"contentType": contentType}

	var doc FeedDocument
	if err := c.post(ctx, apiFeeds, "/feeds/2021-06-30/documents", body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UploadFeedDocument writes feed content to a document's presigned URL. The
// URL is presigned by Amazon, so the request is sent unsigned; the content
// type must match the one the document was created with.
func (c *Client) UploadFeedDocument(ctx context.Context, doc *FeedDocument, contentType string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, doc.URL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("uploading feed document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, body)
	}
	return nil
}

// CreateFeed submits an uploaded document for processing and returns the new
// feed ID.
func (c *Client) CreateFeed(ctx context.Context, spec CreateFeedSpec) (string, error) {
	if len(spec.MarketplaceIDs) == 0 {
		spec.MarketplaceIDs = []string{c.marketplace.ID}
	}

	var resp struct {
		FeedID string `json:"feedId"`
	}
	if err := c.post(ctx, apiFeeds, "/feeds/2021-06-30/feeds", spec, &resp); err != nil {
		return "", err
	}
	return resp.FeedID, nil
}

// GetFeed returns one feed by ID.
func (c *Client) GetFeed(ctx context.Context, feedID string) (*Feed, error) {
	var feed Feed
	if err := c.get(ctx, apiFeeds, "/feeds/2021-06-30/feeds/"+url.PathEscape(feedID), nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
