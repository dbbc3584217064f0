package application

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tdex-network/coinjoin/pkg/explorer"
)

const (
	checkGate   = "gate"
	checkScript = "script"
	checkInput  = "input"

	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultError    = "error"
)

var inputChecksCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "coinjoin",
		Name:      "input_checks_total",
		Help:      "Number of checks made on transaction inputs.",
	},
	[]string{"check", "result"},
)

// Collectors returns the prometheus collectors of this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{inputChecksCounter}
}

func countCheck(check string, accepted bool, err error) {
	result := resultAccepted
	if !accepted || err != nil {
		result = resultRejected
	}
	if errors.Is(err, ErrInternal) || errors.Is(err, explorer.ErrProvider) {
		result = resultError
	}
	inputChecksCounter.WithLabelValues(check, result).Inc()
}
