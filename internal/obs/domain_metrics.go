package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartOpsTotal counts cart operations by outcome.
	CartOpsTotal *prometheus.CounterVec
	// SummaryItems records how many line items each computed summary covered.
	SummaryItems prometheus.Histogram
	// CartsSweptTotal counts carts reclaimed by the expiry sweeper.
	CartsSweptTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_ops_total",
			Help:      "Count of cart operations by outcome.",
		}, []string{"op", "result"})
		SummaryItems = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_items",
			Help:      "Line items per computed cart summary.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		})
		CartsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_swept_total",
			Help:      "Number of expired carts removed by the sweeper.",
		})

		mustRegisterCollector(reg, CartOpsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOpsTotal = v
			}
		})
		mustRegisterCollector(reg, SummaryItems, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				SummaryItems = v
			}
		})
		mustRegisterCollector(reg, CartsSweptTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartsSweptTotal = v
			}
		})
	})
}

// ObserveCartOp increments the cart operation counter when metrics are
// registered; it is a no-op otherwise so services stay testable without a
// registry.
func ObserveCartOp(op, result string) {
	if CartOpsTotal == nil {
		return
	}
	CartOpsTotal.WithLabelValues(op, result).Inc()
}

// ObserveSummaryItems records the size of a priced cart.
func ObserveSummaryItems(n int) {
	if SummaryItems == nil {
		return
	}
	SummaryItems.Observe(float64(n))
}

// ObserveSweep records reclaimed carts.
func ObserveSweep(removed int) {
	if CartsSweptTotal == nil || removed <= 0 {
		return
	}
	CartsSweptTotal.Add(float64(removed))
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
