package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "examportal", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"route", "code"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "examportal", Name: "handler_errors_total", Help: "Handler errors",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "examportal", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	ExamSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "examportal", Name: "exam_submissions_total", Help: "Persisted exam submissions",
	})
	ImportRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "examportal", Name: "import_rows_total", Help: "Rows written by bulk import",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, DBPing, ExamSubmissions, ImportRows)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
