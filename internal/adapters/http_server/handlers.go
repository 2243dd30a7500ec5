package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travela/internal/app"
	"travela/internal/domain"
)

type Handlers struct {
	Sessions SessionGate
	Screens  *app.Screens
	Profiles *app.ProfileService
	Contact  *app.ContactService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions, false))
		r.Post("/session", h.signIn)
		r.Get("/session", h.getSession)
		r.Delete("/session", h.signOut)
		r.Get("/companion", h.getCompanion)
		r.Post("/companion/guide", h.postGuide)
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.putProfile)
		r.Post("/contact", h.postContact)
	})

	s.mountPages(h)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// writeError maps domain errors onto problem responses. Upstream details stay
// in the logs; clients get the user-facing notice.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity, Errors: ve.Fields})
	case errors.Is(err, domain.ErrEmptyQuery):
		writeProblem(w, http.StatusBadRequest, "Bad Request", app.NoticeEmptyQuery)
	case errors.Is(err, domain.ErrBusy):
		writeProblem(w, http.StatusConflict, "Conflict", "a guide is already being generated")
	case errors.Is(err, domain.ErrExtraction):
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", app.NoticeExtractionFailed)
	case errors.Is(err, domain.ErrGenerationFailed):
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", app.NoticeGenerationFailed)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrRevoked):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "a valid session is required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return false
	}
	return true
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

type sessionOut struct {
	Identity domain.Identity `json:"identity"`
	Profile  *domain.Profile `json:"profile,omitempty"`
	Next     string          `json:"next,omitempty"`
}

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	res, err := h.Profiles.SignIn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, r, bearerToken(r), id.ExpiresAt)
	log.Info().Str("uid", id.UID).Str("next", res.Next).Msg("signed in")
	writeJSON(w, http.StatusOK, sessionOut{Identity: id, Profile: &res.Profile, Next: res.Next})
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, sessionOut{Identity: id})
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.Sessions.SignOut(r.Context(), id); err != nil {
		// subscribers already ran; the token may stay usable until it expires
		log.Warn().Err(err).Str("uid", id.UID).Msg("sign-out incomplete")
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getCompanion(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, h.Screens.Get(id.UID).Snapshot())
}

type guideIn struct {
	Location string `json:"location"`
}

func (h *Handlers) postGuide(w http.ResponseWriter, r *http.Request) {
	var in guideIn
	if !decodeBody(w, r, &in) {
		return
	}
	id, _ := IdentityFrom(r.Context())
	view, err := h.Screens.Get(id.UID).Submit(r.Context(), in.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	p, err := h.Profiles.Get(r.Context(), id.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) putProfile(w http.ResponseWriter, r *http.Request) {
	var form app.ProfileForm
	if !decodeBody(w, r, &form) {
		return
	}
	id, _ := IdentityFrom(r.Context())
	p, err := h.Profiles.Complete(r.Context(), id.UID, form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) postContact(w http.ResponseWriter, r *http.Request) {
	var form app.ContactForm
	if !decodeBody(w, r, &form) {
		return
	}
	id, _ := IdentityFrom(r.Context())
	m, err := h.Contact.Submit(r.Context(), id, form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
