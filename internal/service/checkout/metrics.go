package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var checkoutOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_checkout_outcomes_total",
		Help: "Checkout attempts by outcome",
	},
	[]string{"outcome"},
)
