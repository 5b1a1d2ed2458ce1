package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.sr.ht/~jakintosh/tally/internal/csrf"
)

// HTTPResult captures HTTP response details for test assertions
type HTTPResult struct {
	Code    int
	Error   error
	Headers http.Header
	Body    []byte
}

// Cookie returns the named cookie set by the response, or nil.
func (r HTTPResult) Cookie(name string) *http.Cookie {
	for _, c := range (&http.Response{Header: r.Headers}).Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Header represents an HTTP header key-value pair
type Header struct {
	Key   string
	Value string
}

// ContentTypeJSON returns a header for JSON content type
func ContentTypeJSON() Header {
	return Header{
		Key:   "Content-Type",
		Value: "application/json",
	}
}

// CSRFHeader returns the anti-forgery header carrying token
func CSRFHeader(token string) Header {
	return Header{
		Key:   csrf.HeaderName,
		Value: token,
	}
}

// SessionCookie returns a Cookie header presenting value as access_token
func SessionCookie(value string) Header {
	return Header{
		Key:   "Cookie",
		Value: (&http.Cookie{Name: "access_token", Value: value}).String(),
	}
}

// ExpectStatus validates the HTTP status code and fails the test if it doesn't match
func ExpectStatus(
	t *testing.T,
	expected int,
	result HTTPResult,
) {
	t.Helper()
	if result.Error != nil {
		t.Fatalf("request error: %v", result.Error)
	}
	if result.Code != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, result.Code, string(result.Body))
	}
}

// ExpectSessionCookie validates that the response set access_token and
// returns its value
func ExpectSessionCookie(
	t *testing.T,
	result HTTPResult,
) string {
	t.Helper()
	cookie := result.Cookie("access_token")
	if cookie == nil {
		t.Fatalf("expected access_token cookie in response. Headers: %v", result.Headers)
	}
	return cookie.Value
}

// Do performs a request and optionally decodes JSON response
func Do(
	router http.Handler,
	method string,
	url string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	res := httptest.NewRecorder()
	for _, h := range headers {
		req.Header.Add(h.Key, h.Value)
	}
	router.ServeHTTP(res, req)

	if response != nil && res.Body.Len() > 0 && res.Code < 300 {
		if err := json.Unmarshal(res.Body.Bytes(), response); err != nil {
			return HTTPResult{
				Code:    res.Code,
				Error:   fmt.Errorf("failed to decode JSON: %v\n%s", err, res.Body.String()),
				Headers: res.Header(),
				Body:    res.Body.Bytes(),
			}
		}
	}

	return HTTPResult{Code: res.Code, Headers: res.Header(), Body: res.Body.Bytes()}
}

// Get performs a GET request and optionally decodes JSON response
func Get(
	router http.Handler,
	url string,
	response any,
	headers ...Header,
) HTTPResult {
	return Do(router, http.MethodGet, url, "", response, headers...)
}

// Post performs a POST request and optionally decodes JSON response
func Post(
	router http.Handler,
	url string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	return Do(router, http.MethodPost, url, body, response, headers...)
}

// PostJSON performs a POST with JSON body
func PostJSON(
	router http.Handler,
	urlPath string,
	body string,
	response any,
	headers ...Header,
) HTTPResult {
	return Post(router, urlPath, body, response, append([]Header{ContentTypeJSON()}, headers...)...)
}

// ErrorDetail decodes the {detail} body of an error response
func ErrorDetail(result HTTPResult) string {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(result.Body, &body)
	return body.Detail
}
