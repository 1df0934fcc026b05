package backend

import (
	"net"
	"net/http"
	"time"
)

// HTTPClient abstracts HTTP operations for testability.
// *http.Client satisfies it; tests substitute a recording fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient builds the client used against the robot backend. The
// overall deadline comes from the request context, so the client itself has
// no Timeout: positioning and processing may legitimately take minutes.
func NewHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
	}
	return &http.Client{Transport: tr}
}
