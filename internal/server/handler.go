package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/proctorkit/examclock/internal/session"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

type Handler struct {
	log     zerolog.Logger
	render  *render.Render
	session *session.Session
}

func NewHandler(log zerolog.Logger, render *render.Render, session *session.Session) *Handler {
	return &Handler{
		log:     log,
		render:  render,
		session: session,
	}
}

// command runs a session command and writes the resulting snapshot.
// Commands the clock cannot honor are defined as no-ops, never HTTP
// errors, so callers need no state checks of their own.
func (h *Handler) command(w http.ResponseWriter, cmd session.Command) {
	snapshot, err := h.session.Execute(cmd)
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusServiceUnavailable, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, snapshot)
}

func (h *Handler) StartClock(w http.ResponseWriter, r *http.Request) {
	h.command(w, session.Command{Type: session.CommandStart})
}

func (h *Handler) PauseClock(w http.ResponseWriter, r *http.Request) {
	h.command(w, session.Command{Type: session.CommandPause})
}

func (h *Handler) ResetClock(w http.ResponseWriter, r *http.Request) {
	h.command(w, session.Command{Type: session.CommandReset})
}

func (h *Handler) SetExtraTime(w http.ResponseWriter, r *http.Request) {
	var req ExtraTimeRequest
	if err := unmarshalJSONRequestBody(r, &req); err != nil {
		writeJSONResponse(h.render, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	h.command(w, session.Command{
		Type:        session.CommandSetExtraTime,
		MoreDetails: session.ExtraTimeDetails{Enabled: req.Enabled},
	})
}

func (h *Handler) ArmAutoStart(w http.ResponseWriter, r *http.Request) {
	h.command(w, session.Command{Type: session.CommandArmAutoStart})
}

func (h *Handler) DisarmAutoStart(w http.ResponseWriter, r *http.Request) {
	h.command(w, session.Command{Type: session.CommandDisarmAutoStart})
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.session.Snapshot()
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusServiceUnavailable, errorResponse{Message: err.Error()})
		return
	}
	writeJSONResponse(h.render, w, http.StatusOK, snapshot)
}

func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		writeJSONResponse(h.render, w, http.StatusInternalServerError, errorResponse{Message: "failed to upgrade websocket connection"})
		return
	}
	if err := h.session.Join(conn); err != nil {
		h.log.Debug().Err(err).Msg("watcher failed to join")
		_ = conn.Close()
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
