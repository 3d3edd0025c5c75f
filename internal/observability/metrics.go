package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	mailboxRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mboxctl",
			Subsystem: "mailbox",
			Name:      "requests_total",
			Help:      "Property requests submitted to the firmware.",
		},
		[]string{"channel", "tag", "outcome"},
	)
	mailboxPollAttempts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mboxctl",
			Subsystem: "mailbox",
			Name:      "poll_attempts",
			Help:      "Doorbell poll samples taken before a terminal outcome.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"channel", "outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mboxctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"app", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mboxctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"app", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(mailboxRequests, mailboxPollAttempts, httpRequests, httpDuration)
	})
}

// RecordMailboxRequest records one terminal protocol outcome and the number
// of poll samples it took to reach it.
func RecordMailboxRequest(channel uint32, tag uint32, outcome string, attempts int) {
	RegisterMetrics()
	chLabel := strconv.FormatUint(uint64(channel), 10)
	tagLabel := "0x" + strconv.FormatUint(uint64(tag), 16)
	mailboxRequests.WithLabelValues(chLabel, tagLabel, outcome).Inc()
	mailboxPollAttempts.WithLabelValues(chLabel, outcome).Observe(float64(attempts))
}

func RecordHTTPRequest(app, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(app, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(app, method, path, statusLabel).Observe(duration.Seconds())
}
