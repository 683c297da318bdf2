package client

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/ntpquery/base/metrics"
)

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

type ipClientMetrics struct {
	reqsSent      prometheus.Counter
	sendFailures  prometheus.Counter
	pktsReceived  prometheus.Counter
	respsShort    prometheus.Counter
	respsAccepted prometheus.Counter
	timeouts      prometheus.Counter
}

var (
	ipMetrics        atomic.Pointer[ipClientMetrics]
	resolverFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.ResolverFailuresN,
		Help: metrics.ResolverFailuresH,
	})
)

func init() {
	ipMetrics.Store(newIPClientMetrics())
}

func newIPClientMetrics() *ipClientMetrics {
	return &ipClientMetrics{
		reqsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientReqsSentN,
			Help: metrics.IPClientReqsSentH,
		}),
		sendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientSendFailuresN,
			Help: metrics.IPClientSendFailuresH,
		}),
		pktsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientPktsReceivedN,
			Help: metrics.IPClientPktsReceivedH,
		}),
		respsShort: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientRespsShortN,
			Help: metrics.IPClientRespsShortH,
		}),
		respsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientRespsAcceptedN,
			Help: metrics.IPClientRespsAcceptedH,
		}),
		timeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.IPClientTimeoutsN,
			Help: metrics.IPClientTimeoutsH,
		}),
	}
}

// Resolve returns the addresses of host on the given port, in the order
// reported by the resolver. A nil resolver means net.DefaultResolver.
func Resolve(ctx context.Context, r Resolver, host string, port uint16) ([]netip.AddrPort, error) {
	if r == nil {
		r = net.DefaultResolver
	}
	ips, err := r.LookupNetIP(ctx, "ip", host)
	if err != nil {
		resolverFailures.Inc()
		return nil, fmt.Errorf("%w %s: %w", ErrResolution, host, err)
	}
	if len(ips) == 0 {
		resolverFailures.Inc()
		return nil, fmt.Errorf("%w %s: no addresses", ErrResolution, host)
	}
	addrs := make([]netip.AddrPort, len(ips))
	for i, ip := range ips {
		addrs[i] = netip.AddrPortFrom(ip.Unmap(), port)
	}
	return addrs, nil
}
