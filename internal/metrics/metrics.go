// Package metrics collects Prometheus metrics for votes, reports, uploads and
// HTTP responses.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report into.
type Recorder interface {
	RecordVote(action string)
	RecordVoteRejected(reason string)
	RecordReportFiled()
	RecordUpload(sizeBytes int64)
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	votes         *prometheus.CounterVec
	voteRejected  *prometheus.CounterVec
	reportsFiled  prometheus.Counter
	uploads       prometheus.Counter
	uploadedBytes prometheus.Counter
	httpStatus    *prometheus.CounterVec
}

// NewCollector registers all metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apporbit_votes_total",
			Help: "Vote transitions applied, by action.",
		}, []string{"action"}),
		voteRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apporbit_vote_rejections_total",
			Help: "Vote requests rejected, by reason.",
		}, []string{"reason"}),
		reportsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apporbit_reports_filed_total",
			Help: "Reports accepted.",
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apporbit_uploads_total",
			Help: "Files stored on the media host.",
		}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apporbit_uploaded_bytes_total",
			Help: "Bytes stored on the media host.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apporbit_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.votes,
		c.voteRejected,
		c.reportsFiled,
		c.uploads,
		c.uploadedBytes,
		c.httpStatus,
	)
	return c
}

func (c *Collector) RecordVote(action string) {
	c.votes.WithLabelValues(action).Inc()
}

func (c *Collector) RecordVoteRejected(reason string) {
	c.voteRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordReportFiled() {
	c.reportsFiled.Inc()
}

func (c *Collector) RecordUpload(sizeBytes int64) {
	c.uploads.Inc()
	c.uploadedBytes.Add(float64(sizeBytes))
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordVote(string)         {}
func (Nop) RecordVoteRejected(string) {}
func (Nop) RecordReportFiled()        {}
func (Nop) RecordUpload(int64)        {}
func (Nop) RecordHTTPStatus(int)      {}
