package spapi

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestGetReportsParams_Values(t *testing.T) {
	tests := []struct {
		name   string
		params GetReportsParams
		want   url.Values
	}{
		{
			name:   "empty",
			params: GetReportsParams{},
			want:   url.Values{},
		},
		{
			name: "filters",
			params: GetReportsParams{
				ReportTypes:        []string{"GET_MERCHANT_LISTINGS_ALL_DATA"},
				ProcessingStatuses: []string{"DONE", "IN_PROGRESS"},
				CreatedSince:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				PageSize:           25,
			},
			want: url.Values{
				"reportTypes":        {"GET_MERCHANT_LISTINGS_ALL_DATA"},
				"processingStatuses": {"DONE,IN_PROGRESS"},
				"createdSince":       {"2026-08-01T00:00:00Z"},
				"pageSize":           {"25"},
			},
		},
		{
			name: "next token suppresses filters",
			params: GetReportsParams{
				ReportTypes: []string{"GET_MERCHANT_LISTINGS_ALL_DATA"},
				PageSize:    25,
				NextToken:   "tok",
			},
			want: url.Values{
				"nextToken": {"tok"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.params.values())
		})
	}
}

func TestGetReportLifecycle(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/reports/2021-06-30/reports/{reportID}", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "ID323", chi.URLParam(req, "reportID"))
		_, _ = w.Write([]byte(`{"reportId":"ID323","processingStatus":"DONE","reportDocumentId":"DOC1"}`))
	})
	r.Get("/reports/2021-06-30/documents/{documentID}", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "DOC1", chi.URLParam(req, "documentID"))
		_, _ = w.Write([]byte(`{"reportDocumentId":"DOC1","url":"https://example.invalid/doc","compressionAlgorithm":"GZIP"}`))
	})

	client := newTestClient(t, r)

	report, err := client.GetReport(context.Background(), "ID323")
	require.NoError(t, err)
	require.Equal(t, "DONE", report.ProcessingStatus)
	require.Equal(t, "DOC1", report.ReportDocumentID)

	doc, err := client.GetReportDocument(context.Background(), report.ReportDocumentID)
	require.NoError(t, err)
	require.Equal(t, "GZIP", doc.CompressionAlgorithm)
}

func TestDownloadDocument(t *testing.T) {
	const content = "sku\tprice\nABC-1\t19.99\n"

	t.Run("plain", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			// Presigned URLs must be fetched unsigned.
			require.Empty(t, req.Header.Get("Authorization"))
			require.Empty(t, req.Header.Get("X-Amz-Access-Token"))
			_, _ = w.Write([]byte(content))
		}))
		t.Cleanup(srv.Close)

		client := newTestClient(t, chi.NewRouter())
		got, err := client.DownloadDocument(context.Background(), &ReportDocument{URL: srv.URL})
		require.NoError(t, err)
		require.Equal(t, content, string(got))
	})

	t.Run("gzip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(content))
			require.NoError(t, gz.Close())
		}))
		t.Cleanup(srv.Close)

		client := newTestClient(t, chi.NewRouter())
		got, err := client.DownloadDocument(context.Background(), &ReportDocument{
			URL:                  srv.URL,
			CompressionAlgorithm: "GZIP",
		})
		require.NoError(t, err)
		require.Equal(t, content, string(got))
	})

	t.Run("expired url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		client := newTestClient(t, chi.NewRouter())
		_, err := client.DownloadDocument(context.Background(), &ReportDocument{URL: srv.URL})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	})
}
