package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	InitMetrics("metrics_test")
	InitMetrics("metrics_test")

	RecordPropertyOperation("create", nil)
	RecordPropertyOperation("create", errors.New("boom"))
	RecordPropertyOperation("create", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(PropertyOperationsCounter.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(PropertyOperationsCounter.WithLabelValues("create", "error")))

	RecordMediaUpload("local", time.Now(), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(MediaUploadsCounter.WithLabelValues("local", "success")))

	RecordHTTPRequest("GET", "/api/v1/properties", "200", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/api/v1/properties", "200")))

	RecordTransactionRetry()
	assert.Equal(t, 1.0, testutil.ToFloat64(TransactionRetriesCounter))

	TrackDBOperation("query")(time.Now())
}
