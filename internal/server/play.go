package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/minidash/pkg/scene"
	"github.com/ChicagoDave/minidash/pkg/session"
)

// Conn is where a play loop sends its messages.
type Conn interface {
	Send(b []byte) error
	Close() error
}

// Play runs one session for one client. Inputs arrive on Inbox and are
// applied between steps; frames go out on the connection.
type Play struct {
	Inbox chan Input

	session        *session.Session
	conn           Conn
	tickHz         int
	broadcastEvery int
	quit           chan struct{}
	stopOnce       sync.Once
}

// NewPlay creates a play loop stepping sess tickHz times a second and
// sending a frame every broadcastEvery ticks.
func NewPlay(sess *session.Session, conn Conn, tickHz, broadcastEvery int) *Play {
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	p := &Play{
		Inbox:          make(chan Input, 64),
		session:        sess,
		conn:           conn,
		tickHz:         tickHz,
		broadcastEvery: broadcastEvery,
		quit:           make(chan struct{}),
	}
	sess.OnChange(p.sendEvent)
	return p
}

// Stop ends Run. It is safe to call more than once.
func (p *Play) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
}

// Run drives the session until Stop is called or a send fails.
func (p *Play) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(p.tickHz))
	defer ticker.Stop()

	dt := 1 / float64(p.tickHz)
	p.sendFrame()
	for n := 1; ; n++ {
		select {
		case <-p.quit:
			return
		case in := <-p.Inbox:
			if err := p.apply(in); err != nil {
				p.send(MsgError, ErrorPayload{Message: err.Error()})
			}
			p.sendFrame()
		case <-ticker.C:
			p.session.Tick(dt)
			if n%p.broadcastEvery == 0 {
				if err := p.sendFrame(); err != nil {
					return
				}
			}
		}
	}
}

func (p *Play) apply(in Input) error {
	s := p.session
	switch in.Action {
	case ActionStartJump:
		s.StartJump()
		return nil
	case ActionStopJump:
		s.StopJump()
		return nil
	case ActionPause:
		return s.Pause()
	case ActionResume:
		return s.Resume()
	case ActionRestart:
		return s.Restart()
	case ActionNextLevel:
		return s.NextLevel()
	case ActionDebug:
		s.ToggleDebug()
		return nil
	case ActionTeleportForward:
		_, err := s.Teleport(1, in.Fast)
		return err
	case ActionTeleportBackward:
		_, err := s.Teleport(-1, in.Fast)
		return err
	}
	return fmt.Errorf("unknown action %q", in.Action)
}

func (p *Play) sendFrame() error {
	w := p.session.World()
	if w == nil {
		return nil
	}
	return p.send(MsgFrame, scene.Capture(w, p.session.State().String()))
}

func (p *Play) sendEvent(c session.Change) {
	p.send(MsgEvent, Event{
		From:     c.From.String(),
		To:       c.To.String(),
		Level:    c.Level,
		Distance: c.Distance,
	})
}

func (p *Play) send(t string, payload any) error {
	b, err := Encode(t, payload)
	if err != nil {
		log.Printf("encode %s: %v", t, err)
		return err
	}
	return p.conn.Send(b)
}

// wsConn adapts a websocket connection to Conn.
type wsConn struct {
	ws *websocket.Conn
}

func (c wsConn) Send(b []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

func (c wsConn) Close() error {
	return c.ws.Close()
}

var upgrader = websocket.Upgrader{
	// Local development server: accept any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	index := 0
	if v := r.URL.Query().Get("level"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("level: %w", err))
			return
		}
		index = i
	}

	sess := session.New(s.catalog, s.cfg)
	if err := sess.SelectLevel(index); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	conn := wsConn{ws: ws}
	defer conn.Close()

	ws.SetReadLimit(1 << 16)
	play := NewPlay(sess, conn, s.cfg.World.FPS, s.broadcastEvery)
	if err := sess.Start(); err != nil {
		log.Printf("start level %d: %v", index, err)
		return
	}

	go func() {
		defer play.Stop()
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			env, err := DecodeEnvelope(msg)
			if err != nil || env.T != MsgInput {
				continue
			}
			in, err := DecodePayload[Input](env)
			if err != nil {
				continue
			}
			select {
			case play.Inbox <- in:
			default:
				log.Printf("play: input dropped (%s)", in.Action)
			}
		}
	}()

	log.Printf("play: level %d started for %s", index, r.RemoteAddr)
	play.Run()
	log.Printf("play: %s disconnected", r.RemoteAddr)
}
