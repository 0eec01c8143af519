package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	redemptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "popularity_coupon_redemptions_total",
		Help: "Coupon redemption attempts by outcome.",
	}, []string{"outcome"})

	couponsIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "popularity_coupons_issued_total",
		Help: "Coupons issued by kind and source.",
	}, []string{"kind", "source"})

	recomputeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "popularity_recompute_duration_seconds",
		Help:    "Duration of batch stored-score recomputes.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	recomputeRewrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "popularity_recompute_rewritten_total",
		Help: "Items whose stored score changed during a batch recompute.",
	}, []string{"kind"})

	listingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "popularity_listing_duration_seconds",
		Help:    "Latency of popular listings by kind and mode.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "mode"})

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "popularity_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "path", "status"})
)

// MustRegister registers the package collectors once per process.
func MustRegister(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		registerer.MustRegister(
			redemptionsTotal,
			couponsIssuedTotal,
			recomputeDuration,
			recomputeRewrittenTotal,
			listingDuration,
			httpRequestsTotal,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRedemption(outcome string) {
	redemptionsTotal.WithLabelValues(outcome).Inc()
}

func ObserveCouponIssued(kind, source string) {
	couponsIssuedTotal.WithLabelValues(kind, source).Inc()
}

func ObserveRecompute(kind string, elapsed time.Duration, rewritten int) {
	recomputeDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	recomputeRewrittenTotal.WithLabelValues(kind).Add(float64(rewritten))
}

func ObserveListing(kind, mode string, elapsed time.Duration) {
	listingDuration.WithLabelValues(kind, mode).Observe(elapsed.Seconds())
}

func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
