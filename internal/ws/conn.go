package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// Conn wraps one websocket connection. Writes are serialized with a mutex;
// gorilla conns do not allow concurrent writers.
type Conn struct {
	id int64
	ws *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
}

func newConn(id int64, wsConn *websocket.Conn) *Conn {
	return &Conn{id: id, ws: wsConn}
}

// Push sends one event frame. Implements directory.Handle.
func (c *Conn) Push(event string, payload any) error {
	data, err := encodeEnvelope(event, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
	})
}
