package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"travela/internal/domain"
)

type fakeRunner struct {
	inflight, peak atomic.Int32
}

func (f *fakeRunner) Generate(ctx context.Context, raw string) (domain.GuideResult, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if raw == "Atlantis" {
		return domain.GuideResult{}, domain.ErrGenerationFailed
	}
	return domain.GuideResult{Location: raw, Guide: domain.TravelGuide{History: "h-" + raw}}, nil
}

func TestRunGenerate_OrderAndConcurrency(t *testing.T) {
	f := &fakeRunner{}
	var out bytes.Buffer
	locs := []string{"Paris", "Rome", "Kyoto", "Lima"}

	if err := runGenerate(context.Background(), f, locs, 2, true, &out); err != nil {
		t.Fatalf("err: %v", err)
	}
	if p := f.peak.Load(); p > 2 {
		t.Fatalf("worker limit exceeded: %d", p)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(locs) {
		t.Fatalf("expected %d lines, got %d", len(locs), len(lines))
	}
	for i, l := range lines {
		var r domain.GuideResult
		if err := json.Unmarshal([]byte(l), &r); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if r.Location != locs[i] {
			t.Fatalf("line %d: got %s want %s", i, r.Location, locs[i])
		}
	}
}

func TestRunGenerate_FailuresAreIndependent(t *testing.T) {
	var out bytes.Buffer
	err := runGenerate(context.Background(), &fakeRunner{}, []string{"Atlantis", "Paris"}, 2, false, &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failure, got %v", err)
	}
	if !strings.Contains(out.String(), "# Paris") || !strings.Contains(out.String(), "h-Paris") {
		t.Fatalf("successful location missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Atlantis: "+domain.ErrGenerationFailed.Error()) {
		t.Fatalf("failure not reported:\n%s", out.String())
	}
}
