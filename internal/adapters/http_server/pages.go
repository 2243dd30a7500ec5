package httpserver

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travela/internal/domain"
	"travela/internal/render"
)

var signinPage = template.Must(template.New("signin").Parse(`<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>Sign in - Travela</title></head>
<body>
<h1>Sign in to Travela</h1>
{{if .}}<p class="notice">{{.}}</p>{{end}}
<form method="post" action="/signin">
  <input type="password" name="token" placeholder="Identity token">
  <button type="submit">Sign in</button>
</form>
</body></html>`))

func (s *Server) mountPages(h *Handlers) {
	s.mux.Get("/", staticPage(render.Landing))
	s.mux.Get("/about", staticPage(render.About))
	s.mux.Get("/signin", h.signinForm)
	s.mux.Post("/signin", h.signinSubmit)
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Sessions, true))
		r.Get("/companion", h.companionPage)
		r.Post("/companion", h.companionSubmit)
		r.Post("/signout", h.signoutPage)
	})
}

func staticPage(name render.Static) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render.StaticPage(&buf, name); err != nil {
			log.Error().Err(err).Str("page", string(name)).Msg("render page failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

func writeSignin(w http.ResponseWriter, status int, notice string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := signinPage.Execute(w, notice); err != nil {
		log.Error().Err(err).Msg("render signin failed")
	}
}

func (h *Handlers) signinForm(w http.ResponseWriter, r *http.Request) {
	writeSignin(w, http.StatusOK, "")
}

func (h *Handlers) signinSubmit(w http.ResponseWriter, r *http.Request) {
	token := r.PostFormValue("token")
	id, err := h.Sessions.Authenticate(r.Context(), token)
	if err != nil {
		writeSignin(w, http.StatusUnauthorized, "Sign-in failed. Please try again.")
		return
	}
	if _, err := h.Profiles.SignIn(r.Context(), id); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("profile bootstrap failed")
		writeSignin(w, http.StatusInternalServerError, "Sign-in failed. Please try again.")
		return
	}
	setSessionCookie(w, r, token, id.ExpiresAt)
	http.Redirect(w, r, "/companion", http.StatusSeeOther)
}

func (h *Handlers) signoutPage(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.Sessions.SignOut(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("uid", id.UID).Msg("sign-out incomplete")
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (h *Handlers) companionPage(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	writePage(w, http.StatusOK, render.NewPage(id.Name, h.Screens.Get(id.UID).Snapshot()))
}

func (h *Handlers) companionSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	view, err := h.Screens.Get(id.UID).Submit(r.Context(), r.PostFormValue("location"))

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	default:
		status = http.StatusBadGateway
	}
	writePage(w, status, render.NewPage(id.Name, view))
}

// writePage renders into a buffer first so a template error never leaves a
// half-written page behind.
func writePage(w http.ResponseWriter, status int, p render.Page) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, p); err != nil {
		log.Error().Err(err).Msg("render companion failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
