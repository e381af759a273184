package netserver

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/netmsg"
)

func dialTestServer(t *testing.T, s *Server) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return srv, conn
}

func TestSendAfterDisconnectIsDropped(t *testing.T) {
	s := New(zerolog.Nop())
	srv, conn := dialTestServer(t, s)
	defer srv.Close()

	frame, err := netmsg.Encode(netmsg.MsgHello, netmsg.Hello{Name: "drifter"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}

	var cmd Command
	select {
	case cmd = <-s.Commands():
	case <-time.After(2 * time.Second):
		t.Fatalf("command never arrived")
	}
	if cmd.Env.T != netmsg.MsgHello {
		t.Fatalf("type = %q", cmd.Env.T)
	}

	// client goes away while its command still sits in the sim's queue
	_ = conn.Close()
	select {
	case <-s.Disconnects():
	case <-time.After(2 * time.Second):
		t.Fatalf("disconnect never arrived")
	}

	// the sim replies to the stale command; this must be a silent drop
	cmd.Session.Send(frame)
	cmd.Session.Send(frame)
	s.Broadcast(frame)
}

func TestCommandRoundtrip(t *testing.T) {
	s := New(zerolog.Nop())
	srv, conn := dialTestServer(t, s)
	defer srv.Close()
	defer conn.Close()

	frame, err := netmsg.Encode(netmsg.MsgMove, netmsg.Move{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}

	var cmd Command
	select {
	case cmd = <-s.Commands():
	case <-time.After(2 * time.Second):
		t.Fatalf("command never arrived")
	}

	cmd.Session.Send(frame)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, echo, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	env, err := netmsg.DecodeEnvelope(echo)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.T != netmsg.MsgMove {
		t.Fatalf("echo type = %q", env.T)
	}
}
