package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	hderrors "github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
	"github.com/vango-dev/hookdom/pkg/middleware"
	"github.com/vango-dev/hookdom/pkg/protocol"
)

// maxClientMessage bounds messages read from a mirror. Mirrors send
// nothing but control frames.
const maxClientMessage = 512

// Session is one mirror connection with its own component instance.
type Session struct {
	id     uint64
	server *Server
	conn   *websocket.Conn
	doc    *memhost.Document
	app    App
	inst   *component.Instance

	// Owned by the instance loop
	seq    uint64
	frames int

	cancel context.CancelFunc
	logger *slog.Logger
}

func newSession(s *Server, conn *websocket.Conn) *Session {
	sess := &Session{
		id:     s.nextID.Add(1),
		server: s,
		conn:   conn,
		doc:    memhost.New(),
		app:    s.config.App(),
	}
	sess.logger = s.logger.With("session", sess.id)

	mw := append([]component.Middleware{}, s.config.Middleware...)
	if s.metrics != nil {
		mw = append(mw, s.metrics.Middleware())
	}
	mw = append(mw, sess.stream, middleware.Recover())

	opts := []component.Option{
		component.WithLogger(sess.logger),
		component.WithMiddleware(mw...),
	}
	if s.config.HookOrderCheck {
		opts = append(opts, component.WithHookOptions(hooks.WithOrderCheck(sess.logger)))
	}
	sess.inst = component.Mount(sess.doc, sess.doc.Root(), sess.app.Render, opts...)
	return sess
}

// serve runs the session until parent is done, the client goes away, or a
// frame cannot be written.
func (sess *Session) serve(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	sess.cancel = cancel
	defer cancel()

	sess.logger.Info("session started")
	start := time.Now()

	go sess.readLoop()
	if t, ok := sess.app.(Ticker); ok && sess.server.config.Tick > 0 {
		go sess.tickLoop(ctx, t)
	}

	if err := sess.inst.Run(ctx); err != nil {
		sess.logger.Error("initial render failed", "error", err)
		sess.sendError(err)
	}

	deadline := time.Now().Add(sess.server.config.WriteTimeout)
	sess.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	sess.conn.Close()

	sess.logger.Info("session ended",
		"passes", sess.inst.Passes(),
		"frames", sess.frames,
		"duration", time.Since(start))
}

// readLoop discards client messages and ends the session when the
// connection fails or closes.
func (sess *Session) readLoop() {
	sess.conn.SetReadLimit(maxClientMessage)
	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Debug("read error", "error", err)
			}
			sess.cancel()
			return
		}
	}
}

// tickLoop advances the app on the instance loop every Tick.
func (sess *Session) tickLoop(ctx context.Context, t Ticker) {
	ticker := time.NewTicker(sess.server.config.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sess.inst.Dispatch(t.Tick)
		case <-ctx.Done():
			return
		}
	}
}

// stream is pass middleware sending the pass's attached mutations. Passes
// that failed part way still send what they changed, so the mirror matches
// the document.
func (sess *Session) stream(next component.PassFunc) component.PassFunc {
	return func(ctx context.Context, pass *component.Pass) error {
		err := next(ctx, pass)

		ops := sess.doc.Attached()
		sess.doc.ResetJournal()
		if sendErr := sess.sendPass(ops); sendErr != nil {
			sess.logger.Warn("send failed, closing session", "pass", pass.Number, "error", sendErr)
			sess.cancel()
			if err == nil {
				err = sendErr
			}
		}
		return err
	}
}

func (sess *Session) sendPass(ops []host.Op) error {
	frames, err := protocol.EncodePatchFrames(sess.seq, ops)
	if err != nil {
		return hderrors.New("E121").WithDetailf("pass %d", sess.seq).Wrap(err)
	}
	sess.seq++
	for _, f := range frames {
		if err := sess.write(f); err != nil {
			return err
		}
		if sess.server.metrics != nil {
			sess.server.metrics.FrameSent()
		}
	}
	return nil
}

// sendError sends an error frame. Failures are ignored; the connection is
// about to close.
func (sess *Session) sendError(err error) {
	em := &protocol.ErrorMessage{Code: "E110", Message: err.Error()}
	var he *hderrors.HookdomError
	if stderrors.As(err, &he) && he.Code != "" {
		em.Code = he.Code
	}
	sess.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em)))
}

func (sess *Session) write(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	sess.conn.SetWriteDeadline(time.Now().Add(sess.server.config.WriteTimeout))
	if err := sess.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	sess.frames++
	return nil
}
