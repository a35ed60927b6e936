// Package metrics exports counters for session, cart and checkout activity.
package metrics

import (
	"storefront/internal/cart"
	"storefront/internal/session"

	"github.com/prometheus/client_golang/prometheus"
)

// Login results
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// StoreMetrics counts state changes across every client.
type StoreMetrics struct {
	logins    *prometheus.CounterVec
	logouts   prometheus.Counter
	cartOps   *prometheus.CounterVec
	checkouts *prometheus.CounterVec
}

// NewStoreMetrics registers the store metrics on the provided registerer.
// A nil registerer yields a no-op value.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	logouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_logouts_total",
		Help: "Completed logouts.",
	})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Committed cart mutations by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	reg.MustRegister(logins, logouts, cartOps, checkouts)
	return &StoreMetrics{
		logins:    logins,
		logouts:   logouts,
		cartOps:   cartOps,
		checkouts: checkouts,
	}
}

// IncLogin counts a login attempt.
func (m *StoreMetrics) IncLogin(ok bool) {
	if m == nil || m.logins == nil {
		return
	}
	result := LoginFailure
	if ok {
		result = LoginSuccess
	}
	m.logins.WithLabelValues(result).Inc()
}

// IncCheckout counts a checkout attempt under result.
func (m *StoreMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveSession subscribes to s and returns the cancel func.
func (m *StoreMetrics) ObserveSession(s *session.Store) func() {
	return s.Subscribe(func(ev session.Event) {
		if m == nil || m.logouts == nil {
			return
		}
		if ev.Kind == session.EventLogout {
			m.logouts.Inc()
		}
	})
}

// ObserveCart subscribes to c and returns the cancel func.
func (m *StoreMetrics) ObserveCart(c *cart.Store) func() {
	return c.Subscribe(func(ev cart.Event) {
		if m == nil || m.cartOps == nil {
			return
		}
		m.cartOps.WithLabelValues(normalizeLabel(string(ev.Op))).Inc()
	})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
