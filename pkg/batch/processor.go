package batch

import (
	"time"

	"github.com/google/uuid"

	"reviewimg/internal/downloader"
	"reviewimg/pkg/client"
	"reviewimg/pkg/config"
	"reviewimg/pkg/imageurl"
	"reviewimg/pkg/logger"
	"reviewimg/pkg/metrics"
	"reviewimg/pkg/ratelimit"
	"reviewimg/pkg/review"
	"reviewimg/pkg/storage"
	"reviewimg/pkg/ui"
)

// Summary holds the counters of one category run.
// Downloaded + Skipped + Errored always equals Total.
type Summary struct {
	RunID      string
	Category   string
	Total      int
	Downloaded int
	Skipped    int
	Errored    int
	Bytes      int64
	Duration   time.Duration
}

// Processor downloads the images selected by a category from a review export
type Processor struct {
	config      *config.Config
	client      downloader.ImageDownloader
	rateLimiter ratelimit.Limiter
	console     *ui.Console
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// New creates a Processor with an HTTP client and pacing taken from cfg
func New(cfg *config.Config) *Processor {
	log := logger.GetLogger()

	return &Processor{
		config:      cfg,
		client:      client.NewClient(cfg.Download.UserAgent, log),
		rateLimiter: ratelimit.PerMinute(cfg.Download.RequestsPerMinute),
		console:     ui.Default(),
		logger:      log,
	}
}

// SetClient replaces the image client
func (p *Processor) SetClient(c downloader.ImageDownloader) {
	p.client = c
}

// SetConsole replaces the console used for progress output
func (p *Processor) SetConsole(c *ui.Console) {
	p.console = c
}

// SetMetrics enables metric collection
func (p *Processor) SetMetrics(m *metrics.Metrics) {
	p.metrics = m
}

// SetLogger replaces the logger
func (p *Processor) SetLogger(l logger.Logger) {
	p.logger = l
}

// Run processes one configured category using the configured input and
// output locations
func (p *Processor) Run(cat config.CategoryConfig) (*Summary, error) {
	return p.Process(p.config.Input.Path, p.config.CategoryDir(cat), cat)
}

// Process reads inputPath and downloads every unique image found at
// review[cat.Role][cat.Field] into outputDir.
//
// Read and parse failures return an input error before outputDir is touched.
// A missing or malformed Reviews collection returns a schema error and a
// directory that cannot be created returns a filesystem error. Per-image
// failures are counted in the summary and never returned.
func (p *Processor) Process(inputPath, outputDir string, cat config.CategoryConfig) (*Summary, error) {
	summary := &Summary{
		RunID:    uuid.NewString(),
		Category: cat.Name,
	}
	log := p.logger.WithFields(map[string]interface{}{
		"run_id":   summary.RunID,
		"category": cat.Name,
	})

	export, err := review.Load(inputPath)
	if err != nil {
		log.WithError(err).WithField("input", inputPath).Error("Failed to load review export")
		p.console.PrintError("Failed to load "+inputPath, err)
		return nil, err
	}

	manager, err := storage.NewManager(outputDir, log)
	if err != nil {
		log.WithError(err).Error("Failed to prepare output directory")
		return nil, err
	}

	fetcher := downloader.New(p.client, manager, p.rateLimiter, log, p.metrics)
	visited := NewVisitedSet()
	tracker := ui.NewStatusTracker(len(export.Reviews))

	log.InfoWithFields("Processing review export", map[string]interface{}{
		"input":   inputPath,
		"output":  outputDir,
		"reviews": len(export.Reviews),
	})

	for _, r := range export.Reviews {
		summary.Total++
		tracker.Advance()
		p.metrics.IncReview(cat.Name)

		raw, ok := r.ImageRef(cat.Role, cat.Field)
		if !ok {
			summary.Skipped++
			p.metrics.IncOutcome(cat.Name, metrics.OutcomeSkipped)
			log.DebugWithFields("No image reference", map[string]interface{}{
				"position": tracker.Current,
			})
			continue
		}

		imageURL := imageurl.Normalize(raw)
		filename := imageurl.Filename(imageURL)

		if !visited.Claim(filename) {
			summary.Skipped++
			p.metrics.IncOutcome(cat.Name, metrics.OutcomeSkipped)
			log.DebugWithFields("Image already visited", map[string]interface{}{
				"file": filename,
			})
			continue
		}

		family, _ := imageurl.FamilyOf(imageURL)
		p.console.PrintDownloading(tracker.Position(), imageURL)
		tracker.IncrementFetched()

		result := fetcher.Fetch(downloader.DownloadJob{
			URL:      imageURL,
			Filename: filename,
			Category: cat.Name,
			Family:   family.Name,
		})
		if result.Success {
			summary.Downloaded++
			p.metrics.IncOutcome(cat.Name, metrics.OutcomeDownloaded)
			continue
		}

		summary.Errored++
		p.metrics.IncOutcome(cat.Name, metrics.OutcomeErrored)
		p.console.PrintError("Failed to download "+imageURL, result.Error)
	}

	summary.Duration = tracker.GetElapsedTime()
	summary.Bytes = manager.SavedBytes()
	p.metrics.MarkRunFinished(time.Now())

	p.console.PrintSummary(summary.Total, summary.Downloaded, summary.Skipped, summary.Errored)
	logger.LogBatchSummary(log.WithFields(map[string]interface{}{
		"files":               manager.SavedCount(),
		"bytes":               summary.Bytes,
		"attempts_per_minute": tracker.GetDownloadRate(),
		"duration":            summary.Duration,
	}), cat.Name, summary.Total, summary.Downloaded, summary.Skipped, summary.Errored)

	return summary, nil
}
