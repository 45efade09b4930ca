package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/proctorkit/examclock/pkg/logger"
)

const (
	writeWait      = 10 * time.Second    // time allowed to write a message to the peer
	pongWait       = 60 * time.Second    // time allowed to read the next pong message from the peer
	pingPeriod     = (pongWait * 9) / 10 // send pings to peer with this period. Must be less than pongWait
	maxMessageSize = 512                 // maximum message size allowed from peer
)

// watcher is a display or proctor console connected to the session. It
// receives a snapshot on every state change and may submit commands.
type watcher struct {
	id   string
	name string
	conn *websocket.Conn
	send chan []byte

	session *Session

	mu     sync.Mutex
	closed bool
}

func newWatcher(conn *websocket.Conn, session *Session) *watcher {
	return &watcher{
		id:      uuid.NewString(),
		name:    generateName(),
		conn:    conn,
		send:    make(chan []byte, 2),
		session: session,
	}
}

func (w *watcher) readPump() {
	defer w.Close()
	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error { _ = w.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway) {
				logger.Log.Debug().Err(err).Msg("websocket unexpected close error")
			}
			break
		}
		select {
		case w.session.process <- &inbound{watcher: w, payload: msg}:
		case <-w.session.stopped:
			return
		}
	}
}

func (w *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.Close()
	}()
	for {
		select {
		case message, ok := <-w.send:
			if !ok {
				_ = w.writeMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.writeMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := w.writeMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (w *watcher) writeMessage(msgType int, payload []byte) error {
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(msgType, payload)
}

// Close detaches the watcher from the session and releases the
// connection. Safe to call from any goroutine.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	logger.Log.Debug().Caller().Msgf("closing watcher '%s' (%s)", w.name, w.id)
	w.closed = true
	select {
	case w.session.leave <- w:
	case <-w.session.stopped:
	}
	close(w.send)
	return w.conn.Close()
}

// detach is the session loop's own cleanup path. It must not send on
// the leave channel the loop is no longer reading.
func (w *watcher) detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.send)
	_ = w.conn.Close()
}
