package server

import (
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"flippair/internal/game"
)

// ServerState holds all active game sessions.
type ServerState struct {
	mu sync.RWMutex
	// Address is the host:port the server is bound to, filled in by Run.
	Address  string
	Sessions map[string]*Session
}

func NewServerState() *ServerState {
	return &ServerState{
		Sessions: make(map[string]*Session),
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// getOrCreateSession returns the session with the given ID, creating it with
// the requested pair count when it does not exist. pairCount <= 0 means the
// default.
func (s *ServerState) getOrCreateSession(id string, pairCount int) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.Sessions[id]; ok {
		return sess
	}
	if pairCount <= 0 {
		pairCount = game.DefaultPairCount
	}
	sess := newSession(id, pairCount)
	s.Sessions[id] = sess
	klog.Infof("Session %s created with %d pairs", id, pairCount)
	return sess
}

// dropSessionIfEmpty removes the session from the registry once its last
// client left. In-flight resolve timers no-op harmlessly afterwards.
func (s *ServerState) dropSessionIfEmpty(sess *Session, remaining int) {
	if remaining > 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.Sessions[sess.ID]; ok && cur == sess {
		delete(s.Sessions, sess.ID)
		klog.Infof("Session %s dropped (no clients left)", sess.ID)
	}
}

// HandleWS upgrades the connection and runs its read loop. The first message
// must be a join; everything after that is tap/resize/reset.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		klog.Errorf("WS accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	cl := &client{conn: conn}

	var msg game.WsMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		klog.V(1).Infof("WS closed before join: %v", err)
		return
	}
	if msg.Type != game.MsgTypeJoin {
		cl.sendError("first message must be a join")
		return
	}
	p, err := msg.Parse()
	if err != nil {
		cl.sendError("invalid join message")
		return
	}
	join := p.(*game.JoinMessage)
	if join.SessionID == "" {
		join.SessionID = uuid.NewString()
	}

	sess := s.getOrCreateSession(join.SessionID, join.PairCount)

	listenerKey := uuid.NewString()
	sess.Controller.Subscribe(listenerKey, cl.sendState)
	sess.addClient(cl)
	defer func() {
		sess.Controller.Unsubscribe(listenerKey)
		s.dropSessionIfEmpty(sess, sess.removeClient(cl))
	}()

	// Late joiners get the current board immediately.
	cl.sendState(sess.Controller.Snapshot())

	for {
		var msg game.WsMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			klog.V(1).Infof("WS read loop ended for session %s: %v", sess.ID, err)
			return
		}
		s.handleMessage(sess, cl, msg)
	}
}

func (s *ServerState) handleMessage(sess *Session, cl *client, msg game.WsMessage) {
	p, err := msg.Parse()
	if err != nil {
		cl.sendError(err.Error())
		return
	}

	switch m := p.(type) {
	case *game.TapMessage:
		sess.Controller.HandleTap(m.Index)
	case *game.ResizeMessage:
		sess.Controller.SetPairCount(m.PairCount)
	case *game.ResetMessage:
		sess.Controller.Reset()
	case *game.JoinMessage:
		cl.sendError("already joined")
	default:
		cl.sendError("unexpected message type: " + string(msg.Type))
	}
}
