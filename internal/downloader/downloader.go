package downloader

import (
	"bytes"
	"io"
	"time"

	errs "reviewimg/pkg/errors"
	"reviewimg/pkg/logger"
	"reviewimg/pkg/metrics"
	"reviewimg/pkg/ratelimit"
)

// DownloadJob represents a single image to fetch
type DownloadJob struct {
	URL      string
	Filename string
	Category string
	Family   string
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// ImageDownloader fetches raw image bytes
type ImageDownloader interface {
	DownloadImage(url string) ([]byte, error)
}

// ImageStorage persists image bytes under a filename
type ImageStorage interface {
	SaveImage(r io.Reader, filename string) (int64, error)
}

// Downloader fetches one image at a time and writes it to storage
type Downloader struct {
	client      ImageDownloader
	storage     ImageStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// New creates a Downloader. rateLimiter and m may be nil.
func New(
	client ImageDownloader,
	storage ImageStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
	m *metrics.Metrics,
) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Downloader{
		client:      client,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
		metrics:     m,
	}
}

// Fetch downloads job.URL and writes it to job.Filename, overwriting any
// existing file. Failures are logged and reported in the result; Fetch
// never returns an error.
func (d *Downloader) Fetch(job DownloadJob) DownloadResult {
	result := DownloadResult{Job: job}

	if d.rateLimiter != nil {
		if waited := d.rateLimiter.Wait(); waited > 0 {
			d.logger.DebugWithFields("Paced download", map[string]interface{}{
				"url":    job.URL,
				"waited": waited,
			})
		}
	}

	start := time.Now()
	data, err := d.client.DownloadImage(job.URL)
	if err == nil {
		result.Size, err = d.storage.SaveImage(bytes.NewReader(data), job.Filename)
	}
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err
		d.metrics.IncError(string(errs.TypeOf(err)))
		logger.LogDownload(d.logger, job.Category, job.Filename, job.URL, err)
		return result
	}

	result.Success = true
	d.metrics.ObserveDownload(job.Family, result.Duration)
	d.metrics.AddBytes(job.Category, result.Size)
	logger.LogDownload(d.logger, job.Category, job.Filename, job.URL, nil)

	return result
}
