package tool

import (
	"net/http"
	"time"
)

var (
	DefaultTimeout       = 60 * time.Second
	ConnectionHttpClient *http.Client
)

func init() {
	ConnectionHttpClient = NewHTTPClient(DefaultTimeout)
}

// NewHTTPClient creates the client used for backend calls. Colorization of a large image
// can take a while, so the timeout is generous and configurable.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// InitHTTPClients (re)initializes the shared client after config is loaded.
func InitHTTPClients(timeout time.Duration) {
	ConnectionHttpClient = NewHTTPClient(timeout)
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
