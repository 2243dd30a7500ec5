package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travela/internal/domain"
)

// User-facing notices. Details stay in the logs.
const (
	NoticeEmptyQuery       = "Please enter a location"
	NoticeGenerationFailed = "Failed to generate travel information. Please try again."
	NoticeExtractionFailed = "Failed to process travel information. Please try again."
	NoticePhotosFailed     = "Failed to load images. Please try again."
)

// Pipeline outcomes reported to the observer.
const (
	OutcomeReady            = "ready"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomePhotosFailed     = "photos_failed"
)

type GuideConfig struct {
	BookingLink       string
	PhotoPageSize     int
	GenerationTimeout time.Duration
	PhotoTimeout      time.Duration
	MaxInFlight       int64
}

type GuideService struct {
	gen     domain.Generator
	photos  domain.PhotoSearcher
	cfg     GuideConfig
	sem     *semaphore.Weighted
	observe func(outcome string)
}

func NewGuideService(g domain.Generator, p domain.PhotoSearcher, cfg GuideConfig) *GuideService {
	if cfg.BookingLink == "" {
		cfg.BookingLink = DefaultBookingLink
	}
	if cfg.PhotoPageSize <= 0 {
		cfg.PhotoPageSize = 6
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 16
	}
	return &GuideService{
		gen:     g,
		photos:  p,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.MaxInFlight),
		observe: func(string) {},
	}
}

// WithObserver registers a callback invoked once per outcome (photos_failed may
// accompany ready).
func (s *GuideService) WithObserver(fn func(outcome string)) *GuideService {
	if fn != nil {
		s.observe = fn
	}
	return s
}

// Generate runs query -> prompt -> generation -> extraction -> enrichment.
// Generation and extraction failures abort with no partial result; a photo
// failure only adds a notice and leaves the photo set empty.
func (s *GuideService) Generate(ctx context.Context, raw string) (domain.GuideResult, error) {
	q, err := domain.NewGuideQuery(raw)
	if err != nil {
		return domain.GuideResult{}, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return domain.GuideResult{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	defer s.sem.Release(1)

	text, err := s.generate(ctx, BuildPrompt(q))
	if err != nil {
		log.Error().Err(err).Str("location", q.Location()).Msg("guide generation failed")
		s.observe(OutcomeGenerationFailed)
		return domain.GuideResult{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	guide, err := ExtractGuide(text)
	if err != nil {
		log.Error().Err(err).Str("location", q.Location()).Int("completion_len", len(text)).Msg("guide extraction failed")
		log.Debug().Str("completion_prefix", prefix(text, 200)).Msg("unparseable completion")
		s.observe(OutcomeExtractionFailed)
		return domain.GuideResult{}, err
	}
	guide = PatchBookingLinks(guide, s.cfg.BookingLink)

	res := domain.GuideResult{
		Location: q.Location(),
		Guide:    guide,
		Photos:   domain.PhotoSet{Query: q.PhotoQuery(), URLs: []string{}},
	}

	urls, err := s.searchPhotos(ctx, q.PhotoQuery())
	if err != nil {
		log.Warn().Err(err).Str("location", q.Location()).Msg("photo fetch failed")
		s.observe(OutcomePhotosFailed)
		res.Notices = append(res.Notices, NoticePhotosFailed)
	} else {
		res.Photos.URLs = urls
	}

	s.observe(OutcomeReady)
	return res, nil
}

func (s *GuideService) generate(ctx context.Context, prompt string) (string, error) {
	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}
	return s.gen.Generate(ctx, prompt)
}

func (s *GuideService) searchPhotos(ctx context.Context, query string) ([]string, error) {
	if s.photos == nil {
		return []string{}, nil
	}
	if s.cfg.PhotoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PhotoTimeout)
		defer cancel()
	}
	urls, err := s.photos.SearchPhotos(ctx, query, s.cfg.PhotoPageSize)
	if err != nil {
		return nil, err
	}
	if len(urls) > s.cfg.PhotoPageSize {
		urls = urls[:s.cfg.PhotoPageSize]
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
