package handlers

import (
	"net/http"

	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
)

// SectionGate answers section questions for the navigation shell
type SectionGate interface {
	ResolveSection(session entities.Session, requested entities.Section) entities.Section
	Sections(role entities.Role) []entities.Section
}

// SessionHandler exposes the current session and section resolution
type SessionHandler struct {
	identity providers.IdentityProvider
	gate     SectionGate
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(identity providers.IdentityProvider, gate SectionGate) *SessionHandler {
	return &SessionHandler{
		identity: identity,
		gate:     gate,
	}
}

// sessionResponse is the bootstrap payload for the navigation shell
type sessionResponse struct {
	User     *entities.User     `json:"user"`
	Loading  bool               `json:"loading"`
	Sections []entities.Section `json:"sections"`
	Landing  entities.Section   `json:"landing"`
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.identity.Session(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resp := sessionResponse{
		User:     session.User,
		Loading:  session.Loading,
		Sections: []entities.Section{},
		Landing:  h.gate.ResolveSection(session, entities.SectionDashboard),
	}
	if session.User != nil {
		resp.Sections = h.gate.Sections(session.User.Role)
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// ResolveSection handles GET /api/sections/{section}. Disallowed sections
// fall back silently rather than failing.
func (h *SessionHandler) ResolveSection(w http.ResponseWriter, r *http.Request) {
	session, err := h.identity.Session(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	requested := entities.ParseSection(r.PathValue("section"))
	resolved := h.gate.ResolveSection(session, requested)

	respondWithJSON(w, http.StatusOK, map[string]any{
		"requested": requested,
		"section":   resolved,
		"redirect":  resolved != requested,
	})
}
