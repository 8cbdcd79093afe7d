package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/router"
)

// Frame is one navigation payload sent to the thin client over the
// stream socket: the DOM instructions for a resolved path, or the
// loader outcome that pre-empted rendering.
type Frame struct {
	Seq          uint64                `msgpack:"seq"`
	Path         string                `msgpack:"path"`
	Outcome      string                `msgpack:"outcome"`
	Location     string                `msgpack:"location,omitempty"`
	Instructions []codegen.Instruction `msgpack:"instructions,omitempty"`
}

// EncodeFrame serializes a frame for the wire.
func EncodeFrame(f *Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}

// DecodeFrame deserializes a wire frame.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin policy is the caller's concern in dev; the boundary
	// layer does not own auth.
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	writeTimeout = 10 * time.Second
	readLimit    = 4096
)

// handleStream serves client-side navigation: each text message is a
// request path, answered with a msgpack-encoded Frame of DOM
// instructions resolved for the client target.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit)

	var seq uint64
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		seq++
		frame := s.resolveFrame(r, seq, string(msg))

		data, err := EncodeFrame(frame)
		if err != nil {
			s.log.Error("frame encode failed", "err", err)
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
	}
}

// resolveFrame resolves one navigation request into a Frame.
func (s *Server) resolveFrame(r *http.Request, seq uint64, path string) *Frame {
	frame := &Frame{Seq: seq, Path: path}

	m, ok := s.reg.Match(path)
	if !ok {
		frame.Outcome = router.LoaderNotFound.String()
		return frame
	}

	res, err := s.resolver.Resolve(r.Context(), codegen.TargetClient, path, m)
	if err != nil {
		frame.Outcome = "Cancelled"
		return frame
	}

	frame.Outcome = res.Outcome.Kind.String()
	frame.Location = res.Outcome.Location
	frame.Instructions = res.Instructions
	return frame
}
