// Package download runs feed, image and media downloads requested by the cache
package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/podcache/pkg/domain"
	"github.com/umputun/podcache/pkg/feed"
)

//go:generate moq -out mocks/sink.go -pkg mocks -skip-ensure -fmt goimports . Sink

// Sink receives download results, implemented by cache.Manager.
// Fields of cached objects are read only inside View.
type Sink interface {
	View(fn func())
	GetFeed(id int64) (*domain.Feed, bool)
	UpdateFeed(ctx context.Context, newFeed *domain.Feed) *domain.Feed
	MarkImageDownloaded(ctx context.Context, image *domain.FeedImage, fileURL string)
	MarkMediaDownloaded(ctx context.Context, media *domain.FeedMedia, fileURL string)
	AddDownloadStatus(ctx context.Context, status *domain.DownloadStatus) int64
}

// FeedParser fetches and parses a feed
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.Feed, error)
}

// FileFetcher stores remote files locally
type FileFetcher interface {
	FetchImage(ctx context.Context, url, dst string) (int64, error)
	FetchMedia(ctx context.Context, url, dst string) (int64, error)
}

// Params configures Requester
type Params struct {
	Parser    FeedParser
	Files     FileFetcher
	DataDir   string
	Workers   int
	QueueSize int
	PerHost   int
	Timeout   time.Duration // per job
}

// Requester queues download requests and processes them with a bounded worker pool
type Requester struct {
	parser  FeedParser
	files   FileFetcher
	dataDir string
	workers int
	timeout time.Duration
	limiter *hostLimiter
	jobs    chan job
}

type job struct {
	kind  domain.FileKind
	feed  domain.FeedRequest
	image *domain.FeedImage
	media *domain.FeedMedia
}

// New makes a Requester, call Run to start processing
func New(p Params) *Requester {
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.QueueSize <= 0 {
		p.QueueSize = 100
	}
	if p.Timeout <= 0 {
		p.Timeout = 5 * time.Minute
	}
	return &Requester{
		parser:  p.Parser,
		files:   p.Files,
		dataDir: p.DataDir,
		workers: p.Workers,
		timeout: p.Timeout,
		limiter: newHostLimiter(p.PerHost),
		jobs:    make(chan job, p.QueueSize),
	}
}

// DownloadFeed queues a feed download, implements cache.Downloader
func (r *Requester) DownloadFeed(req domain.FeedRequest) {
	r.enqueue(job{kind: domain.FileKindFeed, feed: req})
}

// DownloadImage queues an image download, implements cache.Downloader
func (r *Requester) DownloadImage(image *domain.FeedImage) {
	r.enqueue(job{kind: domain.FileKindImage, image: image})
}

// DownloadMedia queues a media enclosure download
func (r *Requester) DownloadMedia(media *domain.FeedMedia) {
	r.enqueue(job{kind: domain.FileKindMedia, media: media})
}

// Pending returns the number of queued jobs
func (r *Requester) Pending() int {
	return len(r.jobs)
}

// enqueue never reads image or media fields, those are owned by the cache
func (r *Requester) enqueue(j job) {
	what := j.kind.String()
	if j.kind == domain.FileKindFeed {
		what += " " + j.feed.URL
	}
	select {
	case r.jobs <- j:
		lgr.Printf("[DEBUG] queued %s download", what)
	default:
		lgr.Printf("[WARN] download queue is full, %s request dropped", what)
	}
}

// Run processes queued jobs until the context is canceled
func (r *Requester) Run(ctx context.Context, sink Sink) error {
	lgr.Printf("[INFO] download requester started with %d workers", r.workers)
	var g errgroup.Group
	g.SetLimit(r.workers)

	for {
		select {
		case <-ctx.Done():
			if err := g.Wait(); err != nil {
				lgr.Printf("[ERROR] download worker error: %v", err)
			}
			lgr.Printf("[INFO] download requester stopped")
			return ctx.Err()
		case j := <-r.jobs:
			g.Go(func() error {
				r.process(ctx, sink, j)
				return nil
			})
		}
	}
}

func (r *Requester) process(ctx context.Context, sink Sink, j job) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch j.kind {
	case domain.FileKindFeed:
		r.feed(ctx, sink, j.feed)
	case domain.FileKindImage:
		r.image(ctx, sink, j.image)
	case domain.FileKindMedia:
		r.media(ctx, sink, j.media)
	}
}

func (r *Requester) feed(ctx context.Context, sink Sink, req domain.FeedRequest) {
	release, err := r.limiter.acquire(ctx, req.URL)
	if err != nil {
		return
	}
	parsed, err := r.parser.Parse(ctx, req.URL)
	release()
	if err != nil {
		lgr.Printf("[WARN] failed to download feed %s: %v", req.URL, err)
		if req.FeedID == 0 {
			return
		}
		if saved, ok := sink.GetFeed(req.FeedID); ok {
			r.status(ctx, sink, saved, err)
		}
		return
	}

	saved := sink.UpdateFeed(ctx, parsed)
	r.status(ctx, sink, saved, nil)

	var title string
	var items int
	var image *domain.FeedImage
	sink.View(func() {
		title, items = saved.Title, len(saved.Items)
		if img := saved.Image; img != nil && !img.Downloaded && img.DownloadURL != "" {
			image = img
		}
	})
	lgr.Printf("[INFO] downloaded feed %q, %d items", title, items)
	if image != nil {
		r.DownloadImage(image)
	}
}

func (r *Requester) image(ctx context.Context, sink Sink, image *domain.FeedImage) {
	var id int64
	var link string
	sink.View(func() { id, link = image.ID, image.DownloadURL })

	dst := filepath.Join(r.dataDir, "images", fmt.Sprintf("image-%d%s", id, fileExt(link)))
	if err := r.fetch(ctx, link, dst, r.files.FetchImage); err != nil {
		lgr.Printf("[WARN] failed to download image %d from %s: %v", id, link, err)
		r.status(ctx, sink, image, err)
		return
	}
	sink.MarkImageDownloaded(ctx, image, dst)
	r.status(ctx, sink, image, nil)
}

func (r *Requester) media(ctx context.Context, sink Sink, media *domain.FeedMedia) {
	var id int64
	var link string
	sink.View(func() { id, link = media.ID, media.DownloadURL })

	dst := filepath.Join(r.dataDir, "media", fmt.Sprintf("media-%d%s", id, fileExt(link)))
	if err := r.fetch(ctx, link, dst, r.files.FetchMedia); err != nil {
		lgr.Printf("[WARN] failed to download media %d from %s: %v", id, link, err)
		r.status(ctx, sink, media, err)
		return
	}
	sink.MarkMediaDownloaded(ctx, media, dst)
	r.status(ctx, sink, media, nil)
	lgr.Printf("[INFO] downloaded media %d to %s", id, dst)
}

func (r *Requester) fetch(ctx context.Context, link, dst string, fn func(ctx context.Context, url, dst string) (int64, error)) error {
	release, err := r.limiter.acquire(ctx, link)
	if err != nil {
		return err
	}
	defer release()
	_, err = fn(ctx, link, dst)
	return err
}

func (r *Requester) status(ctx context.Context, sink Sink, file domain.FeedFile, err error) {
	sink.AddDownloadStatus(ctx, &domain.DownloadStatus{
		File:           file,
		Successful:     err == nil,
		Reason:         reasonOf(err),
		CompletionDate: time.Now(),
	})
}

// reasonOf classifies a download error
func reasonOf(err error) domain.DownloadReason {
	var statusErr *feed.HTTPStatusError
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return domain.ReasonNone
	case errors.As(err, &statusErr):
		return domain.ReasonHTTPStatus
	case errors.Is(err, feed.ErrParse):
		return domain.ReasonParser
	case errors.As(err, &pathErr):
		return domain.ReasonFileIO
	default:
		return domain.ReasonConnection
	}
}

// fileExt returns the extension of the url path, ".bin" when missing or odd
func fileExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".bin"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || len(ext) > 6 {
		return ".bin"
	}
	return ext
}
