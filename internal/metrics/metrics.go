// Package metrics exposes the prometheus counters for account and artifact actions.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "careerfolio",
		Name:      "signups_total",
		Help:      "Signup attempts by result.",
	}, []string{"result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "careerfolio",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "careerfolio",
		Name:      "sessions_expired_total",
		Help:      "Sessions cleared because the pointer was missing or dangling.",
	})

	Artifacts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "careerfolio",
		Name:      "artifact_operations_total",
		Help:      "Artifact submit/cancel operations by kind and result.",
	}, []string{"kind", "op", "result"})
)

// Result turns an error into a low-cardinality label.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	type reasoned interface{ ReasonCode() string }
	var r reasoned
	if errors.As(err, &r) {
		return r.ReasonCode()
	}
	return "error"
}
