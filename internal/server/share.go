package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/cache"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/state"
)

// shareRequest is the share creation payload. Adopted holds the practice IDs
// the caller wants frozen into the link.
type shareRequest struct {
	Adopted []string `json:"adopted"`
}

// shareResponse returns the share ID and the path that resolves it.
type shareResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// handleCreateShare mints a short link for an adoption snapshot.
//
// The snapshot is sanitized against the current catalog before storage, so a
// resolved link never injects IDs the catalog does not know.
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode share request"))
		return
	}

	valid, err := s.validSet(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set := adoption.FilterValid(adoption.NewSet(req.Adopted...), valid)

	id := uuid.NewString()
	encoded := state.Encode(set)
	if err := s.cache.Set(ctx, cache.ShareKey(id), []byte(encoded), s.opts.ShareTTL); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "store share"))
		return
	}

	s.logger.Info("share created", "id", id, "practices", len(set))
	s.writeJSON(w, r, http.StatusCreated, shareResponse{ID: id, URL: "/s/" + id})
}

// handleResolveShare redirects a share link to the app with the stored
// adoption state in the query string.
func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "malformed share id"))
		return
	}

	encoded, hit, err := s.cache.Get(r.Context(), cache.ShareKey(id))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "resolve share"))
		return
	}
	if !hit {
		s.writeError(w, r, errors.New(errors.ErrCodeShareNotFound, "share %q not found or expired", id))
		return
	}

	target := "/"
	if len(encoded) > 0 {
		q := url.Values{}
		q.Set(state.ParamAdopted, string(encoded))
		target = "/?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
