package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionsEdited   prometheus.Counter
	MutationRejections   *prometheus.CounterVec
	AccountsCreated      prometheus.Counter
	BooksLoaded          prometheus.Counter

	// Persistence metrics
	SnapshotSaves        *prometheus.CounterVec
	SnapshotSaveDuration prometheus.Histogram
	SnapshotSizeBytes    prometheus.Histogram

	// Report metrics
	ReportRequests *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_transactions_recorded_total",
				Help: "Total transactions recorded by type",
			},
			[]string{"type"},
		),
		TransactionsEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneyfye_transactions_edited_total",
			Help: "Total transaction edits applied",
		}),
		MutationRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_mutation_rejections_total",
				Help: "Total rejected ledger mutations by reason",
			},
			[]string{"reason"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneyfye_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		BooksLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneyfye_books_loaded_total",
			Help: "Total ledger books loaded from storage",
		}),

		// Persistence metrics
		SnapshotSaves: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_snapshot_saves_total",
				Help: "Total snapshot save attempts by outcome",
			},
			[]string{"outcome"},
		),
		SnapshotSaveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneyfye_snapshot_save_duration_seconds",
			Help:    "Duration of snapshot writes",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotSizeBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneyfye_snapshot_size_bytes",
			Help:    "Size of persisted snapshot blobs",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),

		// Report metrics
		ReportRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_report_requests_total",
				Help: "Total monthly report requests by cache outcome",
			},
			[]string{"cache"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneyfye_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneyfye_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
