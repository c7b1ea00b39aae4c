package chat

import (
	"context"
	"time"

	"Projease/logger"
	"Projease/tools/errs"
)

// MessageStore is the external append-only message persistence the
// session protocol consumes. Insert must be acknowledged before the
// message may be broadcast.
type MessageStore interface {
	Insert(ctx context.Context, sender map[string]any, msgObj map[string]any) (string, error)
	Delete(ctx context.Context, id string) error
}

// UnseenCounter tracks per-group, per-user offline message counters.
type UnseenCounter interface {
	Increment(ctx context.Context, groupID, userID string) error
	ResetAll(ctx context.Context, userID string) error
}

// PresenceMirror optionally reflects register/remove into an external
// store (redis) for other processes to read. Mirror failures are logged
// and ignored; presence truth stays in memory.
type PresenceMirror interface {
	Online(ctx context.Context, userID, connID string) error
	Offline(ctx context.Context, userID string) error
}

type Options struct {
	SendQueueSize int
	FanoutWorkers int
	FanoutQueue   int
	StoreTimeout  time.Duration // per storage round-trip; default 5s
}

func (o *Options) norm() {
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = 256
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = 5 * time.Second
	}
}

// Server owns the session state (registry + groups) and the collaborators
// the event handlers need. One instance per process; tests build their
// own with fake stores.
type Server struct {
	opts     Options
	registry *Registry
	groups   *Groups
	fanout   *Fanout
	disp     *Dispatcher

	messages MessageStore
	unseen   UnseenCounter
	mirror   PresenceMirror // nil when no redis configured
}

func NewServer(messages MessageStore, unseen UnseenCounter, mirror PresenceMirror, opts Options) *Server {
	opts.norm()
	return &Server{
		opts:     opts,
		registry: NewRegistry(),
		groups:   NewGroups(),
		fanout:   NewFanout(opts.FanoutWorkers, opts.FanoutQueue),
		disp:     NewDispatcher(),
		messages: messages,
		unseen:   unseen,
		mirror:   mirror,
	}
}

func (s *Server) Registry() *Registry    { return s.registry }
func (s *Server) Groups() *Groups        { return s.groups }
func (s *Server) Fanout() *Fanout        { return s.fanout }
func (s *Server) Disp() *Dispatcher      { return s.disp }
func (s *Server) Messages() MessageStore { return s.messages }
func (s *Server) Unseen() UnseenCounter  { return s.unseen }
func (s *Server) Mirror() PresenceMirror { return s.mirror }

// RequireUser resolves the connection's registered identity; an
// unregistered connection yields ErrNotRegistered.
func (s *Server) RequireUser(connID string) (string, error) {
	userID, ok := s.registry.Lookup(connID)
	if !ok {
		return "", errs.ErrNotRegistered.Wrap()
	}
	return userID, nil
}

// StoreCtx returns the bounded context used for storage round-trips.
func (s *Server) StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opts.StoreTimeout)
}

func (s *Server) SendQueueSize() int { return s.opts.SendQueueSize }

// Teardown is the terminal transition for a connection: drop it from
// the presence table and from every group, then release the writer.
func (s *Server) Teardown(c *Client) {
	userID, removed := s.registry.Remove(c.ConnID)
	left := s.groups.LeaveAll(c.ConnID)
	if removed && s.mirror != nil {
		ctx, cancel := s.StoreCtx()
		if err := s.mirror.Offline(ctx, userID); err != nil {
			logger.Warnf("[chat] presence mirror offline user=%s: %v", userID, err)
		}
		cancel()
	}
	c.CloseSend()
	logger.Infof("[chat] disconnected conn=%s user=%s groups=%d", c.ConnID, userID, len(left))
}
