package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"travela/internal/domain"
)

type ScreenState string

const (
	StateIdle    ScreenState = "idle"
	StateLoading ScreenState = "loading"
	StateReady   ScreenState = "ready"
	StateFailed  ScreenState = "failed"
)

// ScreenView is a point-in-time copy of a screen. Result is set only when
// State is ready.
type ScreenView struct {
	State     ScreenState         `json:"state"`
	Location  string              `json:"location,omitempty"`
	Result    *domain.GuideResult `json:"result,omitempty"`
	Notices   []string            `json:"notices,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// CanSubmit reports whether the submit control is enabled.
func (v ScreenView) CanSubmit() bool { return v.State != StateLoading }

type guideRunner interface {
	Generate(ctx context.Context, raw string) (domain.GuideResult, error)
}

// Screen is the companion view state of one user: Idle -> Loading -> Ready|Failed.
type Screen struct {
	mu   sync.Mutex
	run  guideRunner
	view ScreenView
	now  func() time.Time
}

func NewScreen(run guideRunner) *Screen {
	s := &Screen{run: run, now: time.Now}
	s.view = ScreenView{State: StateIdle, UpdatedAt: s.now()}
	return s
}

func (s *Screen) Snapshot() ScreenView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// Submit runs one request cycle. An empty query leaves the state untouched and
// issues no calls; a submission while loading returns domain.ErrBusy.
func (s *Screen) Submit(ctx context.Context, raw string) (ScreenView, error) {
	if strings.TrimSpace(raw) == "" {
		v := s.Snapshot()
		v.Notices = []string{NoticeEmptyQuery}
		return v, domain.ErrEmptyQuery
	}

	s.mu.Lock()
	if s.view.State == StateLoading {
		v := s.view.clone()
		s.mu.Unlock()
		return v, domain.ErrBusy
	}
	location := strings.TrimSpace(raw)
	s.view = ScreenView{State: StateLoading, Location: location, UpdatedAt: s.now()}
	s.mu.Unlock()

	res, err := s.run.Generate(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.view = ScreenView{
			State:     StateFailed,
			Location:  location,
			Notices:   []string{failureNotice(err)},
			UpdatedAt: s.now(),
		}
		return s.view.clone(), err
	}
	s.view = ScreenView{
		State:     StateReady,
		Location:  location,
		Result:    &res,
		Notices:   res.Notices,
		UpdatedAt: s.now(),
	}
	return s.view.clone(), nil
}

func (v ScreenView) clone() ScreenView {
	out := v
	if v.Result != nil {
		r := *v.Result
		out.Result = &r
	}
	if v.Notices != nil {
		out.Notices = append([]string(nil), v.Notices...)
	}
	return out
}

func failureNotice(err error) string {
	if errors.Is(err, domain.ErrExtraction) {
		return NoticeExtractionFailed
	}
	return NoticeGenerationFailed
}

// Screens holds one Screen per signed-in user.
type Screens struct {
	mu  sync.Mutex
	run guideRunner
	m   map[string]*Screen
}

func NewScreens(run guideRunner) *Screens {
	return &Screens{run: run, m: make(map[string]*Screen)}
}

func (s *Screens) Get(uid string) *Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.m[uid]
	if !ok {
		sc = NewScreen(s.run)
		s.m[uid] = sc
	}
	return sc
}

// Drop forgets a user's screen; used as the sign-out hook.
func (s *Screens) Drop(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, uid)
}

func (s *Screens) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
