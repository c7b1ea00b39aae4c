package handlers

import (
	"Projease/logger"
	"Projease/service/chat"
)

// RegisterHandler binds a caller-supplied identity to the connection.
// Re-registering the same userId is a reconnect: the connection handle
// is overwritten (last-registration-wins) and the user's offline
// counters are cleared across all groups.
type RegisterHandler struct{}

func NewRegisterHandler() chat.Handler { return &RegisterHandler{} }

func (h *RegisterHandler) Event() string { return chat.EventRegister }

func (h *RegisterHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	p, err := chat.DecodeRegister(f.Data)
	if err != nil {
		c.Enqueue(chat.BuildError("A userId is required to register."))
		return nil
	}

	status, replaced := ctx.S.Registry().Register(p.UserID, p.Profile, c)
	if replaced != nil {
		// The superseded connection stays open only until its own read
		// loop notices; closing it here speeds that up.
		replaced.CloseQuiet()
	}

	if status == chat.StatusReconnected {
		sctx, cancel := ctx.S.StoreCtx()
		if rerr := ctx.S.Unseen().ResetAll(sctx, p.UserID); rerr != nil {
			logger.Errorf("[register] reset unseen counters user=%s: %v", p.UserID, rerr)
		}
		cancel()
	}

	if mirror := ctx.S.Mirror(); mirror != nil {
		sctx, cancel := ctx.S.StoreCtx()
		if merr := mirror.Online(sctx, p.UserID, c.ConnID); merr != nil {
			logger.Warnf("[register] presence mirror online user=%s: %v", p.UserID, merr)
		}
		cancel()
	}

	logger.Infof("[register] user=%s conn=%s status=%s", p.UserID, c.ConnID, status)
	c.Enqueue(chat.BuildRegisterResponse(status, p.UserID))
	return nil
}
