package proxy

import (
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/core/httpclient"

	"github.com/go-resty/resty/v2"
)

// Settings configures an optional upstream HTTP proxy for outbound client calls.
type Settings struct {
	Hostname string `mapstructure:"STOREFRONT_PROXY_HOST"`
	Port     int    `mapstructure:"STOREFRONT_PROXY_PORT"`
	Username string `mapstructure:"STOREFRONT_PROXY_USER"`
	Password string `mapstructure:"STOREFRONT_PROXY_PASSWORD"`
}

// HasProxy reports whether a proxy is configured.
func (p Settings) HasProxy() bool {
	return p.Hostname != "" && p.Port > 0
}

// URL returns the proxy URL including credentials, or "" when no proxy is configured.
func (p Settings) URL() string {
	if !p.HasProxy() {
		return ""
	}
	return p.proxyURL().String()
}

// Apply routes the client through the proxy when one is configured.
// Request logging is kept in front of the proxied transport.
func (p Settings) Apply(client *resty.Client) *resty.Client {
	if !p.HasProxy() {
		return client
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(p.proxyURL())

	hc := client.GetClient()
	if lrt, ok := hc.Transport.(*httpclient.LoggingRoundTripper); ok {
		lrt.Proxied = transport
	} else {
		hc.Transport = transport
	}
	return client
}

func (p Settings) proxyURL() *url.URL {
	u := &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", p.Hostname, p.Port)}
	if p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}
