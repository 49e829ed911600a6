package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/session"
)

type fakeConn struct {
	sendCh chan []byte
}

func (f *fakeConn) Send(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
	default:
	}
	return nil
}

func (f *fakeConn) Close() error {
	return nil
}

// waitEvent reads messages until an event moving to state to arrives.
func waitEvent(t *testing.T, recv func() ([]byte, bool), to string) Event {
	t.Helper()
	for {
		b, ok := recv()
		if !ok {
			t.Fatalf("timed out waiting for %s event", to)
		}
		env, err := DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.T != MsgEvent {
			continue
		}
		ev, err := DecodePayload[Event](env)
		if err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.To == to {
			return ev
		}
	}
}

func chanRecv(ch chan []byte, timeout time.Duration) func() ([]byte, bool) {
	deadline := time.After(timeout)
	return func() ([]byte, bool) {
		select {
		case b := <-ch:
			return b, true
		case <-deadline:
			return nil, false
		}
	}
}

func startPlay(t *testing.T, level int) (*Play, *fakeConn) {
	t.Helper()
	sess := session.New(testCatalog(), config.Default())
	if err := sess.SelectLevel(level); err != nil {
		t.Fatalf("SelectLevel: %v", err)
	}
	fc := &fakeConn{sendCh: make(chan []byte, 1024)}
	p := NewPlay(sess, fc, 60, 1)
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	go p.Run()
	return p, fc
}

func TestPlaySendsFrames(t *testing.T) {
	p, fc := startPlay(t, 1)
	defer p.Stop()

	recv := chanRecv(fc.sendCh, 2*time.Second)
	for {
		b, ok := recv()
		if !ok {
			t.Fatal("timed out waiting for frame")
		}
		env, err := DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.T == MsgFrame {
			return
		}
	}
}

func TestPlayPauseAndResume(t *testing.T) {
	p, fc := startPlay(t, 3)
	defer p.Stop()

	recv := chanRecv(fc.sendCh, 2*time.Second)
	p.Inbox <- Input{Action: ActionPause}
	ev := waitEvent(t, recv, "paused")
	if ev.From != "playing" {
		t.Errorf("from = %q, want playing", ev.From)
	}
	p.Inbox <- Input{Action: ActionResume}
	waitEvent(t, recv, "playing")
}

func TestPlayReachesFinish(t *testing.T) {
	p, fc := startPlay(t, 1)
	defer p.Stop()

	// The open level finishes at 12 m, a little over a second of play.
	ev := waitEvent(t, chanRecv(fc.sendCh, 5*time.Second), "level_complete")
	if ev.Level != 1 {
		t.Errorf("level = %d, want 1", ev.Level)
	}
}

func TestPlayRejectsUnknownAction(t *testing.T) {
	p, fc := startPlay(t, 0)
	defer p.Stop()

	p.Inbox <- Input{Action: "fly"}
	recv := chanRecv(fc.sendCh, 2*time.Second)
	for {
		b, ok := recv()
		if !ok {
			t.Fatal("timed out waiting for error")
		}
		env, _ := DecodeEnvelope(b)
		if env.T != MsgError {
			continue
		}
		e, err := DecodePayload[ErrorPayload](env)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if !strings.Contains(e.Message, "fly") {
			t.Errorf("message = %q, want it to name the action", e.Message)
		}
		return
	}
}

func TestPlayWebsocket(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/play?level=3"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	recv := func() ([]byte, bool) {
		_, b, err := ws.ReadMessage()
		return b, err == nil
	}
	waitEvent(t, recv, "playing")

	b, err := Encode(MsgInput, Input{Action: ActionPause})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitEvent(t, recv, "paused")
}

func TestPlayWebsocketBadLevel(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/play?level=7"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for a missing level")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Errorf("response = %v, want 404", resp)
	}
}
