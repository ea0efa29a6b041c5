package server

import (
	"time"

	"golang.org/x/net/websocket"

	"github.com/ray-remotestate/swiftserve/models"
)

func dialWebSocket(url, origin string) (*websocket.Conn, error) {
	return websocket.Dial(url, "", origin)
}

func receiveEvent(conn *websocket.Conn) (models.Event, error) {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev models.Event
	err := websocket.JSON.Receive(conn, &ev)
	return ev, err
}
