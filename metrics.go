package piivault

import "github.com/prometheus/client_golang/prometheus"

// managerMetrics tracks operation counts and tamper signals. All metrics
// are aggregate; no metric carries a session id or any PII-derived value.
type managerMetrics struct {
	encryptTotal      prometheus.Counter
	decryptTotal      prometheus.Counter
	failuresTotal     *prometheus.CounterVec
	integrityFailures prometheus.Counter
	securityAlerts    prometheus.Counter
	rotationsTotal    prometheus.Counter
	sessionsActive    prometheus.GaugeFunc
	documentsActive   prometheus.GaugeFunc
}

func newManagerMetrics(reg prometheus.Registerer, sessions, documents func() float64) *managerMetrics {
	m := &managerMetrics{
		encryptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "encrypt_operations_total",
			Help:      "Completed PII encryption operations.",
		}),
		decryptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "decrypt_operations_total",
			Help:      "Completed PII decryption operations.",
		}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "operation_failures_total",
			Help:      "Failed operations by kind.",
		}, []string{"operation"}),
		integrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "integrity_failures_total",
			Help:      "Envelopes rejected by the integrity check.",
		}),
		securityAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "security_alerts_total",
			Help:      "Tampering indicators: session mismatches and integrity failures.",
		}),
		rotationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "piivault",
			Name:      "key_rotations_total",
			Help:      "Completed session key rotations.",
		}),
		sessionsActive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "piivault",
			Name:      "sessions_active",
			Help:      "Live secure sessions.",
		}, sessions),
		documentsActive: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "piivault",
			Name:      "document_sessions_active",
			Help:      "Live document sessions.",
		}, documents),
	}

	if reg != nil {
		reg.MustRegister(
			m.encryptTotal, m.decryptTotal, m.failuresTotal,
			m.integrityFailures, m.securityAlerts, m.rotationsTotal,
			m.sessionsActive, m.documentsActive,
		)
	}

	return m
}
