package httptransport

import (
	"encoding/json"
	"net/http"

	"didwallet/contracts/wire"
	"didwallet/internal/relay"
	pkgerrors "didwallet/pkg/domain-errors"
	"didwallet/pkg/platform/httputil"
)

// handlePageMessage accepts one envelope from a page context. The origin
// comes from the transport header, never from the message body.
func (h *Handler) handlePageMessage(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "missing origin"))
		return
	}

	var env wire.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeValidation, "invalid message body"))
		return
	}

	conn, err := h.pageConn(origin)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payload, err := conn.Request(r.Context(), env)
	if err != nil {
		h.logger.Warn("page message rejected",
			"origin", origin,
			"type", env.Type,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, payload)
}

// pageConn returns the live connection for an origin, attaching one on first
// contact. Connections outlive individual HTTP requests the way a page's
// message port outlives individual messages.
func (h *Handler) pageConn(origin string) (*relay.PageConn, error) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if conn, ok := h.conns[origin]; ok {
		return conn, nil
	}
	conn, err := h.bus.Connect(origin)
	if err != nil {
		return nil, err
	}
	h.conns[origin] = conn
	return conn, nil
}
