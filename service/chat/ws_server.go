package chat

import (
	"net"
	"net/http"

	"Projease/logger"
	"Projease/tools/errs"
	"Projease/tools/ids"
	"Projease/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

// HandleWS upgrades the request and runs the connection's read loop.
// The connection enters Unregistered; everything after that is driven
// by dispatched events until the read loop exits and Teardown runs.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[HandleWS] upgrade websocket error: %v", err)
		return
	}

	client := NewClient(ids.GenerateString(), ws, s.opts.SendQueueSize)
	safe.Go("write-pump", client.WritePump)
	logger.Infof("[HandleWS] connected conn=%s remote=%s", client.ConnID, ws.RemoteAddr())

	defer s.Teardown(client)

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[WS] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[WS] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Infof("[WS] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[WS] bad frame conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			client.Enqueue(BuildError("Malformed event."))
			continue
		}

		if derr := s.disp.Dispatch(&Context{S: s}, frame, client); derr != nil {
			// Handlers convert expected failures to response events
			// themselves; whatever reaches here is a boundary error.
			logger.Infof("[WS] dispatch conn=%s event=%s err=%v", client.ConnID, frame.Event, derr)
			if errs.ErrInvalidInput.Is(derr) {
				client.Enqueue(BuildError("Unknown event."))
			} else {
				client.Enqueue(BuildError("Internal error."))
			}
		}
	}
}
