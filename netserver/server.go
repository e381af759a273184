// Package netserver accepts websocket sessions and forwards their decoded
// frames to the simulation as commands. It never touches game state; the
// sim drains the command channel at tick boundaries.
package netserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/netmsg"
)

const (
	readLimit    = 1 << 20
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
	sendBacklog  = 64
)

// Command is one decoded client frame plus the session it came from.
type Command struct {
	Session *Session
	Env     netmsg.Envelope
}

// Session is one connected client.
type Session struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *Session) ID() uint64 {
	return s.id
}

// Send queues a frame for the session, dropping it if the client cannot
// keep up or has disconnected. The send channel is never closed: the sim
// may still hold commands from a session that is already gone, so a late
// Send must stay a harmless no-op.
func (s *Session) Send(frame []byte) {
	select {
	case <-s.done:
	case s.send <- frame:
	default:
	}
}

func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// Server owns the listener and the session registry.
type Server struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	commands    chan Command
	disconnects chan *Session

	mu       sync.Mutex
	sessions map[uint64]*Session
	nextID   uint64
}

func New(log zerolog.Logger) *Server {
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		commands:    make(chan Command, 256),
		disconnects: make(chan *Session, 16),
		sessions:    make(map[uint64]*Session),
	}
}

// Commands delivers decoded client frames.
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// Disconnects delivers sessions whose connection ended.
func (s *Server) Disconnects() <-chan *Session {
	return s.disconnects
}

// Broadcast queues a frame for every connected session.
func (s *Server) Broadcast(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.Send(frame)
	}
}

// Handler upgrades HTTP requests into sessions.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		sess := s.register(conn)
		s.log.Info().Uint64("session", sess.id).Str("remote", r.RemoteAddr).Msg("session connected")

		go s.writePump(sess)
		s.readPump(sess)
	})
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) register(conn *websocket.Conn) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sess := &Session{
		id:   s.nextID,
		conn: conn,
		send: make(chan []byte, sendBacklog),
		done: make(chan struct{}),
	}
	s.sessions[sess.id] = sess
	return sess
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.close()
	select {
	case s.disconnects <- sess:
	default:
	}
}

func (s *Server) readPump(sess *Session) {
	defer s.unregister(sess)

	sess.conn.SetReadLimit(readLimit)
	_ = sess.conn.SetReadDeadline(time.Now().Add(readTimeout))
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			s.log.Debug().Uint64("session", sess.id).Err(err).Msg("session read ended")
			return
		}
		env, err := netmsg.DecodeEnvelope(data)
		if err != nil {
			s.log.Warn().Uint64("session", sess.id).Err(err).Msg("bad frame dropped")
			continue
		}
		select {
		case s.commands <- Command{Session: sess, Env: env}:
		default:
			s.log.Warn().Uint64("session", sess.id).Msg("command backlog full, frame dropped")
		}
	}
}

func (s *Server) writePump(sess *Session) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			_ = sess.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sess.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
