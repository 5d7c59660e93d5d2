// network/connection.go
package network

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection is one persistent bidirectional message channel to a client.
type Connection interface {
	Send(v any) error
	ReadMessage() (*ClientMessage, error)
	Close() error
	RemoteAddr() net.Addr
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send writes v as a JSON document. Safe for concurrent use; gorilla allows
// only one writer on the wire at a time.
func (c *WSConnection) Send(v any) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	return c.conn.WriteJSON(v)
}

func (c *WSConnection) ReadMessage() (*ClientMessage, error) {
	var msg ClientMessage
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
