package transfer

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
)

// LoadCertificate reads the collector certificate from disk. The asset
// may be PEM ("-----BEGIN CERTIFICATE-----") or raw DER, depending on
// how the deployment exported it.
func LoadCertificate(path string) (*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read certificate file")
	}

	der := raw
	if block, _ := pem.Decode(raw); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, errors.Errorf("unexpected PEM block %q in %s", block.Type, path)
		}
		der = block.Bytes
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse certificate")
	}
	return cert, nil
}

// pinnedTLSConfig builds a TLS configuration that trusts exactly the
// given certificate. The system roots are deliberately not consulted:
// only the bundled collector certificate authenticates the endpoint.
func pinnedTLSConfig(cert *x509.Certificate) *tls.Config {
	pool := x509.NewCertPool()
	pool.AddCert(cert)

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}
}

// newPinnedClient returns an HTTP client restricted to the pinned
// certificate, with bounded dial and overall request timeouts so a
// stalled upload cannot block past the next scheduled run.
func newPinnedClient(cert *x509.Certificate, timeout time.Duration) (*http.Client, *tls.Config) {
	tlsConfig := pinnedTLSConfig(cert)

	transport := &http.Transport{
		TLSClientConfig: tlsConfig,
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLSHandshakeTimeout: timeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, tlsConfig
}

// probeConnection performs a TLS handshake against the collector and
// closes the connection. The pipeline runs it before recording a new
// transfer so that an unreachable or untrusted endpoint never leaves a
// pending transfer row behind.
func probeConnection(serverURL string, tlsConfig *tls.Config, timeout time.Duration) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return errors.Wrap(err, "invalid server URL")
	}

	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "443")
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config:    tlsConfig,
	}
	conn, err := dialer.Dial("tcp", host)
	if err != nil {
		return errors.Wrap(err, "failed to connect to collector")
	}
	return conn.Close()
}
