package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StageResolve  = "resolve"
	StagePersist  = "persist"
	StageDownload = "download"
)

var (
	DownloadedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "downloaded_count",
	})
	DownloadedSizeMB = promauto.NewCounter(prometheus.CounterOpts{
		Name: "downloaded_size_mb",
	})
	DownloadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "download_errors",
	}, []string{"stage"})

	MediaDiskBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "media_disk_bytes",
	})

	AuthLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins",
	})
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_failures",
	})

	HTTPAPIRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_api_requests",
			Help:    "Method call latency distributions",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.4, 1, 2, 5, 10},
		},
		[]string{"status_code"},
	)
)
