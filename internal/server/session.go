package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"k8s.io/klog/v2"

	"flippair/internal/game"
)

// Session is one board plus the connections watching it. The controller owns
// the game state; the session only fans snapshots out.
type Session struct {
	ID         string
	Controller *game.Controller

	mu      sync.Mutex
	clients map[*client]bool
}

func newSession(id string, pairCount int) *Session {
	return &Session{
		ID:         id,
		Controller: game.NewController(pairCount, game.DefaultSymbols, newRand()),
		clients:    make(map[*client]bool),
	}
}

func (sess *Session) addClient(cl *client) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.clients[cl] = true
}

// removeClient drops cl and reports how many clients remain.
func (sess *Session) removeClient(cl *client) int {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	delete(sess.clients, cl)
	return len(sess.clients)
}

// client wraps a websocket connection with a write mutex: snapshots arrive
// from whichever connection mutated the board, so writes must serialize.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (cl *client) send(msg game.WsMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, cl.conn, msg); err != nil {
		klog.V(1).Infof("client send failed: %v", err)
	}
}

func (cl *client) sendState(snap game.Snapshot) {
	msg, err := game.NewWsMessage(game.MsgTypeState, game.StateMessage{State: snap})
	if err != nil {
		klog.Errorf("Failed to build state message: %v", err)
		return
	}
	cl.send(msg)
}

func (cl *client) sendError(text string) {
	msg, err := game.NewWsMessage(game.MsgTypeError, game.ErrorMessage{Message: text})
	if err != nil {
		klog.Errorf("Failed to build error message: %v", err)
		return
	}
	cl.send(msg)
}
