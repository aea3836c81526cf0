package client

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

const (
	timeout = 30 * time.Second

	// AcceptXML is the Accept header for the rate feed
	AcceptXML = "application/xml,text/xml;q=0.9,*/*;q=0.8"
	// AcceptJSON is the Accept header for the vacancy API
	AcceptJSON = "application/json"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// CreateProxyHTTPClient creates an HTTP client with proxy support. An empty
// or unparsable proxy URL gives a direct client.
func CreateProxyHTTPClient(proxyURL string) *http.Client {
	if proxyURL == "" {
		return CreateHTTPClient()
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return CreateHTTPClient()
	}

	transport := newTransport()
	transport.Proxy = http.ProxyURL(proxy)
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// CreateHTTPClient creates a standard HTTP client
func CreateHTTPClient() *http.Client {
	return &http.Client{
		Transport: newTransport(),
		Timeout:   timeout,
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   true,
	}
}

// GetHeaders returns request headers with a random user agent and the given Accept value
func GetHeaders(accept string) http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	headers.Set("Accept", accept)
	headers.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8")
	headers.Set("Accept-Encoding", "gzip")
	headers.Set("Connection", "keep-alive")
	return headers
}

// Get issues a GET with the given headers and returns the decoded body.
// Any status other than 200 is an error.
func Get(ctx context.Context, httpClient *http.Client, rawURL string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from %s: %d", rawURL, resp.StatusCode)
	}

	body, err := ReadResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// ReadResponseBody reads the response body, handling gzip compression if necessary
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %v", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	return io.ReadAll(reader)
}
