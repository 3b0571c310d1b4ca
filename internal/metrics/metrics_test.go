package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordVote("upvote")
	c.RecordVote("upvote")
	c.RecordVote("undo")
	c.RecordVoteRejected("duplicate")
	c.RecordReportFiled()
	c.RecordUpload(2048)
	c.RecordHTTPStatus(409)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.votes.WithLabelValues("upvote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.votes.WithLabelValues("undo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.voteRejected.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reportsFiled))
	assert.Equal(t, 2048.0, testutil.ToFloat64(c.uploadedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("409")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordReportFiled()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "apporbit_reports_filed_total 1"))
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordVote("upvote")
	r.RecordHTTPStatus(200)
}
