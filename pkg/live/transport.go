package live

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport carries messages between a Session and its browser.
type Transport interface {
	// ReadEvent blocks until the next client event arrives.
	ReadEvent() (ClientEvent, error)

	// Send writes one message.
	Send(msg *ServerMessage) error

	// Ping sends a heartbeat. A peer that answers keeps the connection's
	// read deadline moving while it is otherwise idle.
	Ping() error

	Close() error
}

// wsTransport is a Transport over a gorilla WebSocket connection.
type wsTransport struct {
	conn         *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration

	// writeMu serializes writers; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

func newWSTransport(conn *websocket.Conn, config *SessionConfig) *wsTransport {
	conn.SetReadLimit(config.MaxMessageSize)
	t := &wsTransport{
		conn:         conn,
		readTimeout:  config.ReadTimeout,
		writeTimeout: config.WriteTimeout,
	}
	conn.SetPongHandler(func(string) error {
		t.extendReadDeadline()
		return nil
	})
	return t
}

func (t *wsTransport) extendReadDeadline() {
	if t.readTimeout > 0 {
		t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	}
}

func (t *wsTransport) ReadEvent() (ClientEvent, error) {
	var ev ClientEvent
	t.extendReadDeadline()
	err := t.conn.ReadJSON(&ev)
	return ev, err
}

func (t *wsTransport) Send(msg *ServerMessage) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.writeTimeout > 0 {
		t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	return t.conn.WriteJSON(msg)
}

func (t *wsTransport) Ping() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	deadline := time.Now().Add(time.Second)
	if t.writeTimeout > 0 {
		deadline = time.Now().Add(t.writeTimeout)
	}
	return t.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

func (t *wsTransport) Close() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return t.conn.Close()
}

// isExpectedClose reports whether err is an ordinary end of a connection.
func isExpectedClose(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return !websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNormalClosure)
}
