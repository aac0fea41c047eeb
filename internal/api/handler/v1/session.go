package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

const (
	sessionSendBuffer = 64
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = pongWait * 9 / 10
	maxFrameSize      = 4096
)

var (
	ErrSessionClosed = errors.New("actor session is closed")
	ErrSessionBusy   = errors.New("actor session send buffer is full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is a JSON message exchanged with an actor's client.
type Frame struct {
	Type string `json:"type"`

	// merchant_window
	Catalog   string                `json:"catalog,omitempty"`
	Window    string                `json:"window,omitempty"`
	PageCount int                   `json:"page_count,omitempty"`
	Items     []domain.ItemTemplate `json:"items,omitempty"`

	// message
	Text     string `json:"text,omitempty"`
	ChatType string `json:"chat_type,omitempty"`
	Location string `json:"location,omitempty"`

	// move
	Region uint16 `json:"region,omitempty"`
	X      int32  `json:"x,omitempty"`
	Y      int32  `json:"y,omitempty"`
	Z      int32  `json:"z,omitempty"`
}

const (
	FrameMerchantWindow = "merchant_window"
	FrameMessage        = "message"
	FrameMove           = "move"
	FrameError          = "error"
)

// Session is a connected actor. It is the actor's outbound message channel.
type Session struct {
	id    string
	name  string
	realm uint8

	mu     sync.RWMutex
	pos    domain.Position
	closed bool
	send   chan []byte
}

func NewSession(name string, realm uint8, pos domain.Position) *Session {
	return &Session{
		id:    uuid.NewString(),
		name:  name,
		realm: realm,
		pos:   pos,
		send:  make(chan []byte, sessionSendBuffer),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) Realm() uint8 {
	return s.realm
}

func (s *Session) Position() domain.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

func (s *Session) SetPosition(pos domain.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = pos
}

func (s *Session) Out() merchant.Messenger {
	return s
}

func (s *Session) SendMerchantWindow(catalog *domain.TradeCatalog, kind domain.WindowKind) error {
	return s.push(Frame{
		Type:      FrameMerchantWindow,
		Catalog:   catalog.Key(),
		Window:    kind.String(),
		PageCount: catalog.PageCount(),
		Items:     catalog.Items(),
	})
}

func (s *Session) SendMessage(text string, chatType domain.ChatType, loc domain.ChatLocation) error {
	return s.push(Frame{
		Type:     FrameMessage,
		Text:     text,
		ChatType: string(chatType),
		Location: string(loc),
	})
}

func (s *Session) push(frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSessionClosed
	}

	select {
	case s.send <- payload:
		return nil
	default:
		return ErrSessionBusy
	}
}

// Frames returns the channel of encoded frames waiting to be written.
func (s *Session) Frames() <-chan []byte {
	return s.send
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// SessionHub tracks the connected actors by name. A newer session for the
// same actor replaces the older one.
type SessionHub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	register   chan *Session
	unregister chan *Session
	done       chan struct{}

	log *zap.Logger
}

func NewSessionHub(log *zap.Logger) *SessionHub {
	if log == nil {
		log = zap.NewNop()
	}

	return &SessionHub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *SessionHub) Run() {
	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			if old, ok := h.sessions[s.name]; ok {
				old.close()
			}
			h.sessions[s.name] = s
			h.mu.Unlock()
			h.log.Debug("actor connected", zap.String("actor", s.name), zap.String("session", s.id))
		case s := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.sessions[s.name]; ok && current == s {
				delete(h.sessions, s.name)
			}
			h.mu.Unlock()
			s.close()
			h.log.Debug("actor disconnected", zap.String("actor", s.name), zap.String("session", s.id))
		case <-h.done:
			h.mu.Lock()
			for name, s := range h.sessions {
				s.close()
				delete(h.sessions, name)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *SessionHub) Stop() {
	close(h.done)
}

func (h *SessionHub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
		s.close()
	}
}

func (h *SessionHub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
		s.close()
	}
}

// Actor returns the connected actor with the given name.
func (h *SessionHub) Actor(name string) (merchant.Actor, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// HandleSession godoc
// @Summary      Open an actor session
// @Description  Upgrades to a websocket. Merchant windows and messages for the actor are pushed as JSON frames; the client sends move frames to update its position.
// @Tags         actors
// @Param        token  query  string  false  "Bearer token when the Authorization header cannot be set"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  response.Err
// @Router       /actors/session [get]
// @Security     BearerAuth
func (h *SessionHub) HandleSession(ctx *gin.Context) {
	id, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errNoIdentity))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := NewSession(id.ActorName, id.Realm, domain.Position{})
	h.Register(s)

	go h.writePump(conn, s)
	go h.readPump(conn, s)
}

func (h *SessionHub) writePump(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SessionHub) readPump(conn *websocket.Conn, s *Session) {
	defer func() {
		h.Unregister(s)
		conn.Close()
	}()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("actor session closed unexpectedly", zap.String("actor", s.name), zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			_ = s.push(Frame{Type: FrameError, Text: "malformed frame"})
			continue
		}

		switch frame.Type {
		case FrameMove:
			s.SetPosition(domain.Position{Region: frame.Region, X: frame.X, Y: frame.Y, Z: frame.Z})
		default:
			_ = s.push(Frame{Type: FrameError, Text: "unknown frame type " + frame.Type})
		}
	}
}
