package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"didwallet/internal/approval"
	"didwallet/internal/credential"
	"didwallet/internal/pending"
	pkgerrors "didwallet/pkg/domain-errors"
	"didwallet/pkg/platform/httputil"
)

// defaultWakeWait bounds the surface wake long-poll so idle surfaces re-poll
// instead of holding a connection forever.
const defaultWakeWait = 25 * time.Second

// handleSurfaceWake blocks until a request needs the surface or the poll
// window elapses.
func (h *Handler) handleSurfaceWake(w http.ResponseWriter, r *http.Request) {
	wait := defaultWakeWait
	if raw := r.URL.Query().Get("wait"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 && secs <= 60 {
			wait = time.Duration(secs) * time.Second
		}
	}

	ch, cancel := h.notifier.Subscribe()
	defer cancel()

	select {
	case <-ch:
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"wake": true})
	case <-time.After(wait):
		httputil.WriteJSON(w, http.StatusOK, map[string]bool{"wake": false})
	case <-r.Context().Done():
	}
}

// handleSurfacePending drains the fresh pending requests for presentation.
func (h *Handler) handleSurfacePending(w http.ResponseWriter, r *http.Request) {
	h.session.Activity()
	requests, err := h.approvals.SurfaceReady(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if requests == nil {
		requests = []pending.Request{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type decisionRequest struct {
	Request  pending.Request `json:"request"`
	Approved bool            `json:"approved"`
	Address  string          `json:"address,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// handleSurfaceDecision resolves a presented request with the holder's verdict.
func (h *Handler) handleSurfaceDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid decision body"))
		return
	}

	h.session.Activity()
	err := h.approvals.Decide(r.Context(), approval.Decision{
		Request:  req.Request,
		Approved: req.Approved,
		Address:  req.Address,
		Reason:   req.Reason,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleCredentialList returns the stored collection for the surface.
func (h *Handler) handleCredentialList(w http.ResponseWriter, r *http.Request) {
	h.session.Activity()
	vcs, err := h.approvals.Credentials(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if vcs == nil {
		vcs = []credential.Credential{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"credentials": vcs})
}

// handleCredentialDelete removes a stored credential by holder action.
func (h *Handler) handleCredentialDelete(w http.ResponseWriter, r *http.Request) {
	h.session.Activity()
	if err := h.approvals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
