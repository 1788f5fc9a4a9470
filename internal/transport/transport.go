package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/debug"
)

// Options collects various options which can be set for an HTTP based
// transport.
type Options struct {
	// contains filenames of PEM encoded root certificates to trust
	RootCertFilenames []string

	// Skip TLS certificate verification
	InsecureTLS bool
}

// New returns a new http.RoundTripper with default settings applied. If
// a custom rootCertFilename is non-empty, it must point to a valid PEM file,
// otherwise the function will return an error.
func New(opts Options) (http.RoundTripper, error) {
	// copied from net/http
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{},
	}

	if opts.InsecureTLS {
		tr.TLSClientConfig.InsecureSkipVerify = true
	}

	if opts.RootCertFilenames != nil {
		p := x509.NewCertPool()
		for _, filename := range opts.RootCertFilenames {
			if filename == "" {
				return nil, fmt.Errorf("empty filename for root certificate supplied")
			}
			b, err := os.ReadFile(filename)
			if err != nil {
				return nil, fmt.Errorf("unable to read root certificate: %v", err)
			}
			if ok := p.AppendCertsFromPEM(b); !ok {
				return nil, fmt.Errorf("cannot parse root certificate from %q", filename)
			}
		}
		tr.TLSClientConfig.RootCAs = p
	}

	// wrap in the debug round tripper (if active)
	return debug.RoundTripper(tr), nil
}
