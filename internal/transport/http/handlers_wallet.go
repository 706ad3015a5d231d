package httptransport

import (
	"encoding/json"
	"net/http"

	pkgerrors "didwallet/pkg/domain-errors"
	"didwallet/pkg/platform/httputil"
)

type passwordRequest struct {
	Password string `json:"password"`
}

type addressResponse struct {
	Address string `json:"address"`
}

func (h *Handler) handleWalletInitialize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePassword(w, r)
	if !ok {
		return
	}
	address, err := h.session.Initialize(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, addressResponse{Address: address})
}

func (h *Handler) handleWalletUnlock(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePassword(w, r)
	if !ok {
		return
	}
	address, err := h.session.Unlock(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addressResponse{Address: address})
}

func (h *Handler) handleWalletLock(w http.ResponseWriter, _ *http.Request) {
	h.session.Lock()
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleWalletStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"unlocked": h.session.Unlocked(),
		"address":  h.session.Address(),
	})
}

type accountRequest struct {
	Index uint32 `json:"index"`
}

func (h *Handler) handleWalletAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid account body"))
		return
	}
	address, err := h.session.SwitchAccount(r.Context(), req.Index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addressResponse{Address: address})
}

func decodePassword(w http.ResponseWriter, r *http.Request) (*passwordRequest, bool) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid request body"))
		return nil, false
	}
	if req.Password == "" {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "password required"))
		return nil, false
	}
	return &req, true
}
