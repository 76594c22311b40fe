package spapi

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// Reports API (2021-06-30)
// =============================================================================

// Report describes a requested or generated report.
type Report struct {
	ReportID         string   `json:"reportId"`
	ReportType       string   `json:"reportType"`
	ProcessingStatus string   `json:"processingStatus"`
	MarketplaceIDs   []string `json:"marketplaceIds"`
	CreatedTime      string   `json:"createdTime"`
	ReportDocumentID string   `json:"reportDocumentId"`
	DataStartTime    string   `json:"dataStartTime"`
	DataEndTime      string   `json:"dataEndTime"`
}

// ReportDocument points at a generated report's content.
type ReportDocument struct {
	ReportDocumentID     string `json:"reportDocumentId"`
	URL                  string `json:"url"`
	CompressionAlgorithm string `json:"compressionAlgorithm"`
}

// ReportsList is one page of reports.
type ReportsList struct {
	Reports   []Report `json:"reports"`
	NextToken string   `json:"nextToken"`
}

// CreateReportSpec requests generation of a report.
type CreateReportSpec struct {
	ReportType     string   `json:"reportType"`
	MarketplaceIDs []string `json:"marketplaceIds"`
	DataStartTime  string   `json:"dataStartTime,omitempty"`
	DataEndTime    string   `json:"dataEndTime,omitempty"`
}

// GetReportsParams filters a GetReports call.
//
// Continuation contract: when NextToken is set, it is the only parameter
// sent — every other filter is suppressed for that request.
type GetReportsParams struct {
	ReportTypes        []string
	ProcessingStatuses []string
	CreatedSince       time.Time
	PageSize           int
	NextToken          string
}

func (p GetReportsParams) values() url.Values {
	q := url.Values{}

	if p.NextToken != "" {
		q.Set("nextToken", p.NextToken)
		return q
	}

	setCSV(q, "reportTypes", p.ReportTypes)
	setCSV(q, "processingStatuses", p.ProcessingStatuses)
	setTime(q, "createdSince", p.CreatedSince)
	if p.PageSize > 0 {
		q.Set("pageSize", fmt.Sprintf("%d", p.PageSize))
	}
	return q
}

// CreateReport requests report generation and returns the new report ID.
func (c *Client) CreateReport(ctx context.Context, spec CreateReportSpec) (string, error) {
	if len(spec.MarketplaceIDs) == 0 {
		spec.MarketplaceIDs = []string{c.marketplace.ID}
	}

	var resp struct {
		ReportID string `json:"reportId"`
	}
	if err := c.post(ctx, apiReports, "/reports/2021-06-30/reports", spec, &resp); err != nil {
		return "", err
	}
	return resp.ReportID, nil
}

// GetReport returns one report by ID.
func (c *Client) GetReport(ctx context.Context, reportID string) (*Report, error) {
	var report Report
	if err := c.get(ctx, apiReports, "/reports/2021-06-30/reports/"+url.PathEscape(reportID), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReports returns one page of reports matching the filters.
func (c *Client) GetReports(ctx context.Context, params GetReportsParams) (*ReportsList, error) {
	var list ReportsList
	if err := c.get(ctx, apiReports, "/reports/2021-06-30/reports", params.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetReportDocument returns the download location for a generated report.
func (c *Client) GetReportDocument(ctx context.Context, reportDocumentID string) (*ReportDocument, error) {
	var doc ReportDocument
	if err := c.get(ctx, apiReports, "/reports/2021-06-30/documents/"+url.PathEscape(reportDocumentID), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DownloadDocument fetches a report document's content. The document URL is
// presigned by Amazon, so the request is sent unsigned. GZIP-compressed
// documents are decompressed transparently.
func (c *Client) DownloadDocument(ctx context.Context, doc *ReportDocument) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building document request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, newAPIError(resp.StatusCode, body)
	}

	reader := io.Reader(resp.Body)
	if doc.CompressionAlgorithm == "GZIP" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip document: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return content, nil
}
