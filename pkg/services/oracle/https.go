package oracle

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Tommo-L/neo-modules/pkg/config"
)

// ErrRestrictedRedirect is returned when a request (the original one or a
// redirect hop) resolves to a reserved IP address and the fetcher is
// configured to disallow those (spec §4.B "SSRF guard").
var ErrRestrictedRedirect = errors.New("restricted IP address")

// getDefaultClient builds the HTTP client the Protocol https/http fetchers
// share: a fixed wall-clock timeout spanning connect/headers/body, and,
// unless AllowPrivateHost is set, a dial+redirect guard rejecting any hop
// whose resolved address is not global unicast.
func getDefaultClient(cfg config.OracleConfiguration) *http.Client {
	cl := &http.Client{
		Timeout: cfg.RequestTimeout(),
	}
	if !cfg.AllowPrivateHost {
		cl.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return checkRestricted(req.URL.Hostname())
		}
		cl.Transport = restrictedTransport{inner: http.DefaultTransport, allowPrivateHost: cfg.AllowPrivateHost}
	} else {
		cl.Transport = http.DefaultTransport
	}
	return cl
}

// restrictedTransport wraps an http.RoundTripper to reject the initial
// request (not just subsequent redirects) when it resolves to a reserved
// IP, since CheckRedirect is never consulted for the first hop.
type restrictedTransport struct {
	inner            http.RoundTripper
	allowPrivateHost bool
}

func (t restrictedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.allowPrivateHost {
		if err := checkRestricted(req.URL.Hostname()); err != nil {
			return nil, err
		}
	}
	return t.inner.RoundTrip(req)
}

func checkRestricted(host string) error {
	ips, err := net.LookupIP(host)
	if err != nil {
		// host is already a literal IP; net.LookupIP handles that case too,
		// so a failure here means the name genuinely doesn't resolve.
		return fmt.Errorf("%w: could not resolve host %s: %v", ErrRestrictedRedirect, host, err)
	}
	for _, ip := range ips {
		if isReserved(ip) {
			return fmt.Errorf("%w: IP is not global unicast: %s", ErrRestrictedRedirect, ip)
		}
	}
	return nil
}

// isReserved reports whether ip falls in a non-globally-routable range
// (loopback, link-local, unique-local/private, unspecified), the set of
// addresses the SSRF guard refuses to fetch unless AllowPrivateHost is set.
func isReserved(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return true
	}
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 10 ||
			(ip4[0] == 172 && ip4[1]&0xf0 == 16) ||
			(ip4[0] == 192 && ip4[1] == 168) ||
			ip4[0] == 127
	}
	// IPv6 unique local addresses, fc00::/7.
	return len(ip) == net.IPv6len && ip[0]&0xfe == 0xfc
}
