package chat

import (
	"Projease/tools/errs"
)

type Handler interface {
	Event() string
	Handle(ctx *Context, f *Frame, c *Client) error
}

// Context carries the server into handlers.
type Context struct {
	S *Server
}

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

// Dispatch routes a parsed frame to its handler. Unknown events are an
// input error; the caller converts it to an error event for the client.
func (d *Dispatcher) Dispatch(ctx *Context, f *Frame, c *Client) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return errs.ErrInvalidInput.WrapMsg("unknown event: " + f.Event)
	}
	return h.Handle(ctx, f, c)
}
