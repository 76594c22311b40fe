package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// Signer
// =============================================================================

// Signer signs a prepared HTTP request with AWS Signature Version 4.
//
// A Signer is pure and stateless per call: it reads no shared mutable state
// and may be used concurrently, provided each call gets its own request.
// Callers that source temporary credentials per request simply construct a
// Signer per request; key derivation is four HMAC operations and is not
// cached across calls.
type Signer struct {
	creds   Credentials
	region  string
	service string

	now func() time.Time
}

// NewSigner creates a Signer for the given credentials, region and service.
// Missing access key, secret key, region or service are caller programming
// errors and fail immediately with a configuration-kind error.
func NewSigner(creds Credentials, region, service string) (*Signer, error) {
	switch {
	case creds.AccessKeyID == "":
		return nil, NewError(ErrMissingAccessKey)
	case creds.SecretAccessKey == "":
		return nil, NewError(ErrMissingSecretKey)
	case region == "":
		return nil, NewError(ErrMissingRegion)
	case service == "":
		return nil, NewError(ErrMissingService)
	}

	return &Signer{
		creds:   creds,
		region:  region,
		service: service,
		now:     time.Now,
	}, nil
}

// Sign signs req in place, capturing the current UTC time once for the whole
// signing call. body must be the exact bytes that will be transmitted; nil
// means no body.
func (s *Signer) Sign(req *http.Request, body []byte) error {
	return s.SignAt(req, body, s.now())
}

// SignAt signs req in place using the given signing time. Identical inputs
// and an identical signing time produce a byte-identical Authorization
// header, which is what makes the signer testable against AWS's published
// test vectors.
func (s *Signer) SignAt(req *http.Request, body []byte, signingTime time.Time) error {
	if req.URL == nil || (req.URL.Host == "" && req.Host == "") {
		return NewError(fmt.Errorf("%w: missing host", ErrMalformedURL))
	}

	// The same captured timestamp feeds the X-Amz-Date header, the
	// string-to-sign and the credential scope. Recomputing it partway
	// through would invalidate the signature.
	signingTime = signingTime.UTC()
	amzDate := signingTime.Format(ISO8601BasicFormat)

	if req.Host == "" {
		req.Host = req.URL.Host
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Header.Get(ContentTypeHeader) == "" {
		req.Header.Set(ContentTypeHeader, DefaultContentType)
	}
	if req.Header.Get(UserAgentHeader) == "" {
		req.Header.Set(UserAgentHeader, DefaultUserAgent)
	}
	if s.creds.SessionToken != "" {
		req.Header.Set(XAmzSecurityTokenHeader, s.creds.SessionToken)
	}
	req.Header.Set(XAmzDateHeader, amzDate)

	payloadHash := hashPayload(body)

	// Capture the signed header set before the payload hash header goes on
	// the wire; the hash travels as a header but is already bound into the
	// signature through the canonical request.
	signedHeaders := selectSignedHeaders(req.Header)

	queryString, err := canonicalQueryString(req.URL.RawQuery)
	if err != nil {
		return NewError(fmt.Errorf("%w: %v", ErrMalformedURL, err))
	}

	canonical := CanonicalRequest{
		Method:        strings.ToUpper(req.Method),
		URI:           canonicalURI(req.URL.EscapedPath()),
		QueryString:   queryString,
		Headers:       canonicalHeaders(req, signedHeaders),
		SignedHeaders: strings.Join(signedHeaders, ";"),
		PayloadHash:   payloadHash,
	}

	scope := CredentialScope{
		Date:    signingTime,
		Region:  s.region,
		Service: s.service,
	}

	stringToSign := buildStringToSign(canonical.String(), amzDate, scope)
	signingKey := deriveSigningKey(s.creds.SecretAccessKey, signingTime, s.region, s.service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	req.Header.Set(XAmzContentSHA256Header, payloadHash)
	req.Header.Set(AuthorizationHeader, SignV4Algorithm+
		" Credential="+s.creds.AccessKeyID+"/"+scope.String()+
		", SignedHeaders="+canonical.SignedHeaders+
		", Signature="+signature)

	return nil
}

// =============================================================================
// Canonical Request Building
// =============================================================================

// canonicalURI returns the canonical URI path. An empty path canonicalizes
// to "/". The query string is never part of the URI component.
func canonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// canonicalQueryString percent-encodes every parameter name and value per
// RFC 3986 (space is %20, never +), sorts by encoded name in ascending byte
// order with ties broken by encoded value, and joins name=value pairs with
// "&". Duplicate names are kept, not merged.
func canonicalQueryString(rawQuery string) (string, error) {
	if rawQuery == "" {
		return "", nil
	}

	var pairs []string
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		decodedName, err := unescapeQueryComponent(name)
		if err != nil {
			return "", err
		}
		decodedValue, err := unescapeQueryComponent(value)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, escapeRFC3986(decodedName)+"="+escapeRFC3986(decodedValue))
	}

	sort.Strings(pairs)
	return strings.Join(pairs, "&"), nil
}

// unescapeQueryComponent reverses any encoding the caller already applied so
// re-encoding stays canonical. "+" is treated as an encoded space, matching
// how the parameters were put on the URL in the first place.
func unescapeQueryComponent(s string) (string, error) {
	s = strings.ReplaceAll(s, "+", " ")
	decoded, err := unescapePercent(s)
	if err != nil {
		return "", err
	}
	return decoded, nil
}

// unescapePercent decodes %XX sequences.
func unescapePercent(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated percent escape in %q", s)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("invalid percent escape in %q", s)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

const upperhex = "0123456789ABCDEF"

// escapeRFC3986 percent-encodes s per RFC 3986: unreserved characters
// (ALPHA / DIGIT / "-" / "." / "_" / "~") pass through, everything else
// becomes %XX with uppercase hex. Space encodes to %20, not "+".
func escapeRFC3986(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

// selectSignedHeaders returns the sorted, lowercased names of the headers
// that enter the signature: every x-amz-* header plus host. Other headers
// (Content-Type included) are deliberately left out of the signed set even
// though they are sent on the wire.
func selectSignedHeaders(headers http.Header) []string {
	seen := map[string]bool{"host": true}
	selected := []string{"host"}
	for name := range headers {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, signedHeaderPrefix) && !seen[lower] {
			seen[lower] = true
			selected = append(selected, lower)
		}
	}
	sort.Strings(selected)
	return selected
}

// canonicalHeaders builds the canonical headers block: one
// "lowercased-name:trimmed-value\n" line per signed header, in sorted order,
// trailing newline after every line including the last.
func canonicalHeaders(req *http.Request, signedHeaders []string) string {
	var canonical strings.Builder
	for _, name := range signedHeaders {
		var value string
		if name == "host" {
			value = req.Host
		} else {
			value = req.Header.Get(name)
		}

		value = strings.TrimSpace(value)
		value = strings.Join(strings.Fields(value), " ")

		canonical.WriteString(name)
		canonical.WriteString(":")
		canonical.WriteString(value)
		canonical.WriteString("\n")
	}
	return canonical.String()
}

// hashPayload returns the lowercase hex SHA-256 of the raw body. A nil or
// empty body hashes the empty byte string, never a placeholder value.
func hashPayload(body []byte) string {
	if len(body) == 0 {
		return EmptyStringSHA256
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// String to Sign and Key Derivation
// =============================================================================

// buildStringToSign joins the algorithm tag, the full timestamp, the
// credential scope and the hex SHA-256 of the canonical request.
func buildStringToSign(canonicalRequest, amzDate string, scope CredentialScope) string {
	hash := sha256.Sum256([]byte(canonicalRequest))

	return StringToSign{
		Algorithm:            SignV4Algorithm,
		RequestDateTime:      amzDate,
		CredentialScope:      scope.String(),
		CanonicalRequestHash: hex.EncodeToString(hash[:]),
	}.String()
}

// deriveSigningKey derives the per-request signing key:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), service), "aws4_request")
func deriveSigningKey(secretKey string, date time.Time, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(date.Format(YYYYMMDD)))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(AWS4Request))
}

// hmacSHA256 computes HMAC-SHA256.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
