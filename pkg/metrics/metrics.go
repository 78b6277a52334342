package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	CertificatesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "certificates_created_total", Help: "Number of certificates created."},
	)
	CertificatesDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "certificates_deleted_total", Help: "Number of certificates deleted."},
	)
	DocumentsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "documents_uploaded_total", Help: "Number of certificate documents uploaded."},
	)
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rrportal", Name: "sync_runs_total", Help: "Number of spreadsheet mirror runs by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CertificatesCreated)
	reg.MustRegister(CertificatesDeleted)
	reg.MustRegister(DocumentsUploaded)
	reg.MustRegister(SyncRuns)
}
