package auth

import (
	"encoding/hex"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Credentials and timestamp from AWS's published SigV4 test suite.
var (
	testCreds = Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	}

	testSigningTime = time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC)
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner(testCreds, "us-east-1", "service")
	require.NoError(t, err)
	return signer
}

func newTestRequest(t *testing.T, method, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	return req
}

// =============================================================================
// Construction
// =============================================================================

func TestNewSigner_Validation(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		region  string
		service string
		wantErr error
	}{
		{
			name:    "valid",
			creds:   testCreds,
			region:  "us-east-1",
			service: "execute-api",
		},
		{
			name:    "missing access key",
			creds:   Credentials{SecretAccessKey: "secret"},
			region:  "us-east-1",
			service: "execute-api",
			wantErr: ErrMissingAccessKey,
		},
		{
			name:    "missing secret key",
			creds:   Credentials{AccessKeyID: "AKID"},
			region:  "us-east-1",
			service: "execute-api",
			wantErr: ErrMissingSecretKey,
		},
		{
			name:    "missing region",
			creds:   testCreds,
			region:  "",
			service: "execute-api",
			wantErr: ErrMissingRegion,
		},
		{
			name:    "missing service",
			creds:   testCreds,
			region:  "us-east-1",
			service: "",
			wantErr: ErrMissingService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := NewSigner(tt.creds, tt.region, tt.service)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.NotNil(t, signer)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, IsConfiguration(err), "expected configuration-kind error")
			require.Nil(t, signer)
		})
	}
}

// =============================================================================
// Known-Answer Tests (AWS SigV4 test suite, region us-east-1, service "service")
// =============================================================================

func TestSignAt_KnownAnswers(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		url      string
		wantAuth string
	}{
		{
			// get-vanilla
			name:   "vanilla GET",
			method: http.MethodGet,
			url:    "https://example.amazonaws.com/",
			wantAuth: "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
				"SignedHeaders=host;x-amz-date, " +
				"Signature=5fa00fa31553b73ebf1942676e86291e8372ff2a2260956d9b8aae1d763fbf31",
		},
		{
			// post-vanilla
			name:   "vanilla POST",
			method: http.MethodPost,
			url:    "https://example.amazonaws.com/",
			wantAuth: "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
				"SignedHeaders=host;x-amz-date, " +
				"Signature=5da7c1a2acd57cee7505fc6676e4e544621c30862966e37dddb68e92efbe5d6b",
		},
		{
			// get-vanilla-query-order-key-case
			name:   "GET with unsorted query",
			method: http.MethodGet,
			url:    "https://example.amazonaws.com/?Param2=value2&Param1=value1",
			wantAuth: "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
				"SignedHeaders=host;x-amz-date, " +
				"Signature=b97d918cfa904a5beff61c982a1b6f458b799221646efd99d3219ec94cdf2500",
		},
	}

	signer := newTestSigner(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTestRequest(t, tt.method, tt.url)
			require.NoError(t, signer.SignAt(req, nil, testSigningTime))
			require.Equal(t, tt.wantAuth, req.Header.Get(AuthorizationHeader))
			require.Equal(t, "20150830T123600Z", req.Header.Get(XAmzDateHeader))
		})
	}
}

// The worked IAM example from AWS's signing documentation pins down key
// derivation and the string-to-sign independently of header selection.
func TestDeriveSigningKey_DocsExample(t *testing.T) {
	key := deriveSigningKey(testCreds.SecretAccessKey, testSigningTime, "us-east-1", "iam")
	require.Equal(t,
		"c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9",
		hex.EncodeToString(key),
	)
}

func TestStringToSign_DocsExample(t *testing.T) {
	canonical := CanonicalRequest{
		Method:      http.MethodGet,
		URI:         "/",
		QueryString: "Action=ListUsers&Version=2010-05-08",
		Headers: "content-type:application/x-www-form-urlencoded; charset=utf-8\n" +
			"host:iam.amazonaws.com\n" +
			"x-amz-date:20150830T123600Z\n",
		SignedHeaders: "content-type;host;x-amz-date",
		PayloadHash:   EmptyStringSHA256,
	}

	scope := CredentialScope{Date: testSigningTime, Region: "us-east-1", Service: "iam"}
	stringToSign := buildStringToSign(canonical.String(), "20150830T123600Z", scope)

	require.Equal(t, "AWS4-HMAC-SHA256\n"+
		"20150830T123600Z\n"+
		"20150830/us-east-1/iam/aws4_request\n"+
		"f536975d06c0309214f805bb90ccff089219ecd68b2577efef23edd43b7e1a59",
		stringToSign,
	)

	signingKey := deriveSigningKey(testCreds.SecretAccessKey, testSigningTime, "us-east-1", "iam")
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
	require.Equal(t, "5d672d79c15b13162d9279b0855cfba6789a8edb4c82c400e06b5924a6f2b5d7", signature)
}

// =============================================================================
// Canonicalization
// =============================================================================

func TestCanonicalQueryString(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     string
		wantErr  bool
	}{
		{
			name:     "empty query",
			rawQuery: "",
			want:     "",
		},
		{
			name:     "sorted by name",
			rawQuery: "b=2&a=1",
			want:     "a=1&b=2",
		},
		{
			name:     "duplicate names kept, ties broken by value",
			rawQuery: "tag=beta&tag=alpha",
			want:     "tag=alpha&tag=beta",
		},
		{
			name:     "space encodes to percent-20",
			rawQuery: "q=hello+world",
			want:     "q=hello%20world",
		},
		{
			name:     "reserved characters encoded",
			rawQuery: "path=a/b:c",
			want:     "path=a%2Fb%3Ac",
		},
		{
			name:     "already-encoded input re-encodes canonically",
			rawQuery: "q=hello%20world",
			want:     "q=hello%20world",
		},
		{
			name:     "empty value kept",
			rawQuery: "flag=",
			want:     "flag=",
		},
		{
			name:     "value-less parameter gets empty value",
			rawQuery: "flag",
			want:     "flag=",
		},
		{
			name:     "unreserved characters pass through",
			rawQuery: "k=a-b_c.d~e",
			want:     "k=a-b_c.d~e",
		},
		{
			name:     "truncated percent escape",
			rawQuery: "q=%2",
			wantErr:  true,
		},
		{
			name:     "invalid percent escape",
			rawQuery: "q=%zz",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := canonicalQueryString(tt.rawQuery)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSignAt_QueryOrderDoesNotChangeSignature(t *testing.T) {
	signer := newTestSigner(t)

	first := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/?b=2&a=1")
	second := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/?a=1&b=2")

	require.NoError(t, signer.SignAt(first, nil, testSigningTime))
	require.NoError(t, signer.SignAt(second, nil, testSigningTime))

	require.Equal(t,
		first.Header.Get(AuthorizationHeader),
		second.Header.Get(AuthorizationHeader),
	)
}

func TestCanonicalURI(t *testing.T) {
	require.Equal(t, "/", canonicalURI(""))
	require.Equal(t, "/orders/v0/orders", canonicalURI("/orders/v0/orders"))
}

// =============================================================================
// Signing Behavior
// =============================================================================

func TestSignAt_Deterministic(t *testing.T) {
	signer := newTestSigner(t)
	body := []byte(`{"foo":"bar"}`)

	first := newTestRequest(t, http.MethodPost, "https://example.amazonaws.com/things")
	second := newTestRequest(t, http.MethodPost, "https://example.amazonaws.com/things")

	require.NoError(t, signer.SignAt(first, body, testSigningTime))
	require.NoError(t, signer.SignAt(second, body, testSigningTime))

	require.Equal(t,
		first.Header.Get(AuthorizationHeader),
		second.Header.Get(AuthorizationHeader),
	)
}

func TestSignAt_EmptyBodyHashing(t *testing.T) {
	signer := newTestSigner(t)

	get := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
	post := newTestRequest(t, http.MethodPost, "https://example.amazonaws.com/")

	require.NoError(t, signer.SignAt(get, nil, testSigningTime))
	require.NoError(t, signer.SignAt(post, []byte{}, testSigningTime))

	// Both hash the empty byte string, never a placeholder.
	require.Equal(t, EmptyStringSHA256, get.Header.Get(XAmzContentSHA256Header))
	require.Equal(t, EmptyStringSHA256, post.Header.Get(XAmzContentSHA256Header))
}

func TestSignAt_HeaderFiltering(t *testing.T) {
	signer := newTestSigner(t)

	req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "value")

	require.NoError(t, signer.SignAt(req, nil, testSigningTime))

	parsed, err := ParseSignV4(req.Header.Get(AuthorizationHeader))
	require.NoError(t, err)
	require.Equal(t, []string{"host", "x-amz-date"}, parsed.SignedHeaders)
}

func TestSignAt_SessionTokenPropagation(t *testing.T) {
	t.Run("token present", func(t *testing.T) {
		creds := testCreds
		creds.SessionToken = "SESSION-TOKEN"
		signer, err := NewSigner(creds, "us-east-1", "service")
		require.NoError(t, err)

		req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
		require.NoError(t, signer.SignAt(req, nil, testSigningTime))

		require.Equal(t, "SESSION-TOKEN", req.Header.Get(XAmzSecurityTokenHeader))

		parsed, err := ParseSignV4(req.Header.Get(AuthorizationHeader))
		require.NoError(t, err)
		require.Contains(t, parsed.SignedHeaders, "x-amz-security-token")
	})

	t.Run("token absent", func(t *testing.T) {
		signer := newTestSigner(t)

		req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
		require.NoError(t, signer.SignAt(req, nil, testSigningTime))

		// Omitted entirely, not sent empty.
		_, present := req.Header[http.CanonicalHeaderKey(XAmzSecurityTokenHeader)]
		require.False(t, present)

		parsed, err := ParseSignV4(req.Header.Get(AuthorizationHeader))
		require.NoError(t, err)
		require.NotContains(t, parsed.SignedHeaders, "x-amz-security-token")
	})
}

func TestSignAt_ScopeRoundTrip(t *testing.T) {
	signer := newTestSigner(t)

	req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
	require.NoError(t, signer.SignAt(req, nil, testSigningTime))

	parsed, err := ParseSignV4(req.Header.Get(AuthorizationHeader))
	require.NoError(t, err)

	wantScope := CredentialScope{
		Date:    testSigningTime,
		Region:  "us-east-1",
		Service: "service",
	}

	// The scope in the Credential= field must match the scope used inside
	// the string-to-sign exactly.
	require.Equal(t, wantScope.String(), parsed.Credential.Scope.String())
	require.Equal(t, "20150830/us-east-1/service/aws4_request", parsed.Credential.Scope.String())
	require.Equal(t, testCreds.AccessKeyID, parsed.Credential.AccessKey)
}

func TestSignAt_DefaultHeaders(t *testing.T) {
	signer := newTestSigner(t)

	req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
	require.NoError(t, signer.SignAt(req, nil, testSigningTime))

	require.Equal(t, DefaultContentType, req.Header.Get(ContentTypeHeader))
	require.Equal(t, DefaultUserAgent, req.Header.Get(UserAgentHeader))
	require.Equal(t, "example.amazonaws.com", req.Host)
}

func TestSignAt_CallerHeadersPreserved(t *testing.T) {
	signer := newTestSigner(t)

	req := newTestRequest(t, http.MethodPost, "https://example.amazonaws.com/")
	req.Header.Set(ContentTypeHeader, "application/json")
	req.Header.Set(UserAgentHeader, "custom-agent/2.0")

	require.NoError(t, signer.SignAt(req, nil, testSigningTime))

	require.Equal(t, "application/json", req.Header.Get(ContentTypeHeader))
	require.Equal(t, "custom-agent/2.0", req.Header.Get(UserAgentHeader))
}

func TestSignAt_MalformedURL(t *testing.T) {
	signer := newTestSigner(t)

	req := &http.Request{Method: http.MethodGet, URL: nil}
	err := signer.SignAt(req, nil, testSigningTime)
	require.ErrorIs(t, err, ErrMalformedURL)
	require.False(t, IsConfiguration(err))
}

func TestSign_UsesCurrentTime(t *testing.T) {
	signer := newTestSigner(t)
	signer.now = func() time.Time { return testSigningTime }

	req := newTestRequest(t, http.MethodGet, "https://example.amazonaws.com/")
	require.NoError(t, signer.Sign(req, nil))

	require.Equal(t, "20150830T123600Z", req.Header.Get(XAmzDateHeader))
}

// =============================================================================
// Parsing
// =============================================================================

func TestParseSignV4(t *testing.T) {
	valid := "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
		"SignedHeaders=host;x-amz-date, " +
		"Signature=5fa00fa31553b73ebf1942676e86291e8372ff2a2260956d9b8aae1d763fbf31"

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{
			name:   "valid header",
			header: valid,
		},
		{
			name:    "wrong algorithm prefix",
			header:  strings.Replace(valid, "AWS4-HMAC-SHA256", "AWS4-HMAC-SHA512", 1),
			wantErr: true,
		},
		{
			name:    "unsorted signed headers",
			header:  strings.Replace(valid, "host;x-amz-date", "x-amz-date;host", 1),
			wantErr: true,
		},
		{
			name:    "missing signature",
			header:  "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, SignedHeaders=host",
			wantErr: true,
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseSignV4(tt.header)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAuthorizationHeader)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "AKIDEXAMPLE", parsed.Credential.AccessKey)
			require.Equal(t, "us-east-1", parsed.Credential.Scope.Region)
			require.Equal(t, "service", parsed.Credential.Scope.Service)
			require.Equal(t, []string{"host", "x-amz-date"}, parsed.SignedHeaders)
		})
	}
}
