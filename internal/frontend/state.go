package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"

	"flippair/internal/game"
)

// GlobalClientState manages the connection and the latest board snapshot.
type GlobalClientState struct {
	Snapshot  *game.Snapshot
	Error     string
	Conn      *websocket.Conn
	SessionID string

	// PendingPairs is the pair count chosen on the home page, sent with
	// the join when the session does not exist yet.
	PendingPairs int

	// Listeners for state updates
	Listeners map[string]func()
}

var State *GlobalClientState

func InitState() {
	if State == nil {
		klog.V(1).Infof("InitState: creating new state (was nil)")
		State = &GlobalClientState{
			Listeners:    make(map[string]func()),
			PendingPairs: game.DefaultPairCount,
		}
	} else {
		klog.V(1).Infof("InitState: state already exists")
	}
}

func (s *GlobalClientState) Notify() {
	klog.V(1).Infof("GlobalClientState: Notifying %d listeners", len(s.Listeners))
	for _, l := range s.Listeners {
		if l != nil {
			l()
		}
	}
}

// ConnectWS connects to the server and sends a join message.
func (s *GlobalClientState) ConnectWS(sessionID string) error {
	if s.Conn != nil {
		klog.Infof("ConnectWS: Closing existing connection")
		s.Conn.CloseNow()
	}

	wsURL := fmt.Sprintf("ws://%s/ws", app.Window().URL().Host)
	klog.Infof("ConnectWS: Connecting to %s (Session: %s)", wsURL, sessionID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		klog.Errorf("ConnectWS: Dial failed: %v", err)
		return fmt.Errorf("dial failed: %w", err)
	}

	s.Conn = conn
	s.SessionID = sessionID

	joinMsg, err := game.NewWsMessage(game.MsgTypeJoin, game.JoinMessage{
		SessionID: sessionID,
		PairCount: s.PendingPairs,
	})
	if err != nil {
		return fmt.Errorf("failed to create join message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, joinMsg); err != nil {
		klog.Errorf("ConnectWS: Failed to send join: %v", err)
		return fmt.Errorf("failed to send join: %w", err)
	}

	klog.Infof("ConnectWS: Join sent. Starting read loop.")
	go s.readLoop(conn)

	return nil
}

func (s *GlobalClientState) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		var msg game.WsMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			klog.Errorf("readLoop: WS read error: %v", err)
			break
		}
		s.handleMessage(msg)
	}
}

func (s *GlobalClientState) handleMessage(msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		klog.Errorf("handleMessage: Failed to parse %s message: %v", msg.Type, err)
		return
	}

	switch m := p.(type) {
	case *game.StateMessage:
		klog.V(1).Infof("handleMessage: snapshot with %d cards", len(m.State.Cards))
		s.Snapshot = &m.State
		s.Error = ""
		s.Notify()
	case *game.ErrorMessage:
		klog.Errorf("handleMessage: server error: %s", m.Message)
		s.Error = m.Message
		s.Notify()
	default:
		klog.Warningf("handleMessage: unexpected message type %s", msg.Type)
	}
}

func (s *GlobalClientState) sendMessage(msgType game.MessageType, payload interface{}) {
	if s.Conn == nil {
		return
	}
	msg, err := game.NewWsMessage(msgType, payload)
	if err != nil {
		klog.Errorf("sendMessage: Failed to create %s message: %v", msgType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	wsjson.Write(ctx, s.Conn, msg)
}

// SendTap sends a tap on the card at index.
func (s *GlobalClientState) SendTap(index int) {
	s.sendMessage(game.MsgTypeTap, game.TapMessage{Index: index})
}

// SendResize asks the server to rebuild the board with the given pair count.
func (s *GlobalClientState) SendResize(pairCount int) {
	s.sendMessage(game.MsgTypeResize, game.ResizeMessage{PairCount: pairCount})
}

// SendReset restarts the board with the current pair count.
func (s *GlobalClientState) SendReset() {
	s.sendMessage(game.MsgTypeReset, nil)
}
