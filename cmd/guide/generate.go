package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"travela/internal/adapters/llm"
	"travela/internal/adapters/observability"
	"travela/internal/adapters/unsplash"
	"travela/internal/app"
	"travela/internal/domain"
	"travela/internal/render"
)

type guideRunner interface {
	Generate(ctx context.Context, raw string) (domain.GuideResult, error)
}

func newGenerateCmd() *cobra.Command {
	var (
		workers int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "generate <location>...",
		Short: "Run the guide pipeline for one or more locations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = cfg.CLIWorkers
			}
			ctx := cmd.Context()
			gen, err := llm.New(ctx, llm.Config{
				Provider: cfg.LLMProvider,
				Model:    cfg.LLMModel,
				APIKey:   cfg.LLMKey,
				BaseURL:  cfg.LLMBaseURL,
			})
			if err != nil {
				return err
			}
			// photos are optional for the CLI
			var photos domain.PhotoSearcher
			if c, err := unsplash.New(cfg.UnsplashBase, cfg.UnsplashKey, cfg.UnsplashRPS); err == nil {
				photos = c
			} else {
				log.Warn().Err(err).Msg("photo search disabled")
			}
			svc := app.NewGuideService(gen, photos, app.GuideConfig{
				BookingLink:       cfg.BookingURL,
				PhotoPageSize:     cfg.PhotoPageSize,
				GenerationTimeout: cfg.GenerationTimeout(),
				PhotoTimeout:      cfg.PhotoTimeout(),
				MaxInFlight:       int64(workers),
			}).WithObserver(observability.ObserveGuide)

			return runGenerate(ctx, svc, args, workers, asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Locations processed concurrently")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON lines")
	return cmd
}

type outcome struct {
	res domain.GuideResult
	err error
}

// runGenerate runs one independent pipeline per location and prints the
// results in argument order. It fails if any location failed.
func runGenerate(ctx context.Context, svc guideRunner, locations []string, workers int, asJSON bool, out io.Writer) error {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([]outcome, len(locations))
	var wg sync.WaitGroup

	for i, loc := range locations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].err = err
			continue
		}
		wg.Add(1)
		go func(i int, loc string) {
			defer wg.Done()
			defer sem.Release(1)
			res, err := svc.Generate(ctx, loc)
			results[i] = outcome{res: res, err: err}
			if err != nil {
				log.Warn().Str("location", loc).Err(err).Msg("guide failed")
				return
			}
			log.Info().Str("location", loc).Int("photos", len(res.Photos.URLs)).Msg("guide ok")
		}(i, loc)
	}
	wg.Wait()

	failed := 0
	enc := json.NewEncoder(out)
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", locations[i], r.err)
			continue
		}
		var err error
		if asJSON {
			err = enc.Encode(r.res)
		} else {
			err = render.Text(out, r.res)
			fmt.Fprintln(out)
		}
		if err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d locations failed", failed, len(locations))
	}
	return nil
}
