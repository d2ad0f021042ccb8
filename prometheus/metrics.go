package prometheus

import (
	"strconv"
	"sync"
	"time"

	"vendor-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Status code category counter (2xx, 4xx, 5xx)
	StatusCategoryCounter *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity operation metrics, labelled by entity and operation
	OperationsCounter *prometheus.CounterVec

	// Performance recalculation metrics
	RecalculationsCounter   *prometheus.CounterVec
	RecalculationDuration   prometheus.Histogram
	VendorPerformanceGauge  *prometheus.GaugeVec
	HistorySnapshotsCounter prometheus.Counter
)

var initOnce sync.Once

// InitMetrics initializes Prometheus metrics with configuration.
// Only the first call registers collectors.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() {
		register(config.Metrics.Prefix)
	})
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StatusCategoryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	OperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of vendor and purchase order operations",
		},
		[]string{"entity", "operation"},
	)

	RecalculationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_performance_recalculations_total",
			Help: "Total number of vendor performance recalculations",
		},
		[]string{"result"},
	)

	RecalculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_performance_recalculation_duration_seconds",
			Help:    "Duration of vendor performance recalculations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	VendorPerformanceGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_vendor_performance",
			Help: "Current performance metric value per vendor",
		},
		[]string{"vendor_id", "metric"},
	)

	HistorySnapshotsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_history_snapshots_total",
			Help: "Total number of historical performance rows written",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	if OperationsCounter == nil {
		return
	}
	OperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordHTTPRequest records request count, duration and status category
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())

	category := ""
	switch {
	case status >= 200 && status < 300:
		category = "2xx"
	case status >= 400 && status < 500:
		category = "4xx"
	case status >= 500 && status < 600:
		category = "5xx"
	}
	if category != "" {
		StatusCategoryCounter.WithLabelValues(category, method, path).Inc()
	}
}

// RecordAuth records an authentication attempt and its outcome
func RecordAuth(success bool) {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
	if success {
		AuthSuccessCounter.Inc()
	} else {
		AuthErrorsCounter.Inc()
	}
}

// RecordRecalculation records one recalculation and its duration
func RecordRecalculation(err error, startTime time.Time) {
	if RecalculationsCounter == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	RecalculationsCounter.WithLabelValues(result).Inc()
	RecalculationDuration.Observe(time.Since(startTime).Seconds())
}

// UpdateVendorPerformance sets the per-vendor metric gauges
func UpdateVendorPerformance(vendorID uint, onTime, quality, responseTime, fulfillment float64) {
	if VendorPerformanceGauge == nil {
		return
	}
	id := strconv.FormatUint(uint64(vendorID), 10)
	VendorPerformanceGauge.WithLabelValues(id, "on_time_delivery_rate").Set(onTime)
	VendorPerformanceGauge.WithLabelValues(id, "quality_rating_avg").Set(quality)
	VendorPerformanceGauge.WithLabelValues(id, "average_response_time").Set(responseTime)
	VendorPerformanceGauge.WithLabelValues(id, "fulfillment_rate").Set(fulfillment)
}

// ForgetVendor drops the gauges of a deleted vendor
func ForgetVendor(vendorID uint) {
	if VendorPerformanceGauge == nil {
		return
	}
	VendorPerformanceGauge.DeletePartialMatch(prometheus.Labels{"vendor_id": strconv.FormatUint(uint64(vendorID), 10)})
}

// RecordSnapshots counts historical rows written by a snapshot run
func RecordSnapshots(count int) {
	if HistorySnapshotsCounter == nil {
		return
	}
	HistorySnapshotsCounter.Add(float64(count))
}
