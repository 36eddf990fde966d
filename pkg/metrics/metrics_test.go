package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, m *Metrics, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	next:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue next
				}
			}
			return metric
		}
	}
	return nil
}

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	metric := findMetric(t, m, name, labels)
	if metric == nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

func TestCounters(t *testing.T) {
	m := New()

	m.IncReview("reviews")
	m.IncReview("reviews")
	m.IncOutcome("reviews", OutcomeDownloaded)
	m.IncOutcome("reviews", OutcomeSkipped)
	m.IncOutcome("reviews", OutcomeSkipped)
	m.AddBytes("reviews", 2048)
	m.AddBytes("reviews", 0)
	m.IncError("network")

	assert.Equal(t, 2.0, counterValue(t, m, "reviewimg_reviews_total", map[string]string{"category": "reviews"}))
	assert.Equal(t, 1.0, counterValue(t, m, "reviewimg_images_total", map[string]string{"category": "reviews", "outcome": "downloaded"}))
	assert.Equal(t, 2.0, counterValue(t, m, "reviewimg_images_total", map[string]string{"category": "reviews", "outcome": "skipped"}))
	assert.Equal(t, 2048.0, counterValue(t, m, "reviewimg_downloaded_bytes_total", map[string]string{"category": "reviews"}))
	assert.Equal(t, 1.0, counterValue(t, m, "reviewimg_errors_total", map[string]string{"error_type": "network"}))
}

func TestObserveDownload(t *testing.T) {
	m := New()
	m.ObserveDownload("review_photo", 150*time.Millisecond)
	m.ObserveDownload("", time.Second)

	photo := findMetric(t, m, "reviewimg_download_duration_seconds", map[string]string{"family": "review_photo"})
	require.NotNil(t, photo)
	assert.Equal(t, uint64(1), photo.GetHistogram().GetSampleCount())

	other := findMetric(t, m, "reviewimg_download_duration_seconds", map[string]string{"family": "other"})
	require.NotNil(t, other)
	assert.InDelta(t, 1.0, other.GetHistogram().GetSampleSum(), 0.0001)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncReview("reviews")
		m.IncOutcome("reviews", OutcomeErrored)
		m.ObserveDownload("listing_image", time.Second)
		m.AddBytes("reviews", 1)
		m.IncError("write")
		m.MarkRunFinished(time.Now())
	})
	assert.NoError(t, m.WriteTextfile("/should/not/be/written"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncOutcome("products", OutcomeDownloaded)
	m.MarkRunFinished(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "reviewimg.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `reviewimg_images_total{category="products",outcome="downloaded"} 1`)
	assert.Contains(t, out, "reviewimg_last_run_timestamp_seconds 1.7e+09")

	assert.NoError(t, m.WriteTextfile(""))
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
