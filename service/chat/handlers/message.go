package handlers

import (
	"Projease/logger"
	"Projease/service/chat"
	"Projease/tools/errs"
)

// GroupMessageHandler runs the send-message sequence:
//  1. persist the message; abort with an error event when the insert is
//     not acknowledged (an unpersisted message is never broadcast),
//  2. broadcast the stored message (persisted id included) to the
//     group's current member set,
//  3. bump the unseen counter for every listed recipient who has no
//     live presence entry, each one independently.
type GroupMessageHandler struct{}

func NewGroupMessageHandler() chat.Handler { return &GroupMessageHandler{} }

func (h *GroupMessageHandler) Event() string { return chat.EventGroupMessage }

func (h *GroupMessageHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	p, err := chat.DecodeGroupMessage(f.Data)
	if err != nil {
		c.Enqueue(chat.BuildError("Group name and message are required."))
		return nil
	}

	userID, uerr := ctx.S.RequireUser(c.ConnID)
	if uerr != nil {
		if errs.ErrNotRegistered.Is(uerr) {
			c.Enqueue(chat.BuildError("You must register before sending messages."))
			return nil
		}
		return uerr
	}
	sender, _ := ctx.S.Registry().Profile(userID)

	sctx, cancel := ctx.S.StoreCtx()
	id, serr := ctx.S.Messages().Insert(sctx, sender, p.Message)
	cancel()
	if serr != nil {
		logger.Errorf("[groupMessage] save message user=%s group=%s: %v", userID, p.GroupID, serr)
		c.Enqueue(chat.BuildError("Failed to send message."))
		return nil
	}

	members := ctx.S.Groups().MembersOf(p.GroupID)
	ctx.S.Fanout().Broadcast(members, chat.BuildGroupMessageReceived(sender, p.Message, id))

	// Offline recipients get an unseen bump; one failing counter never
	// blocks the others.
	for _, r := range p.Members {
		if r.UserID == "" || ctx.S.Registry().IsOnline(r.UserID) {
			continue
		}
		ictx, icancel := ctx.S.StoreCtx()
		if ierr := ctx.S.Unseen().Increment(ictx, p.GroupID, r.UserID); ierr != nil {
			logger.Errorf("[groupMessage] unseen increment group=%s user=%s: %v", p.GroupID, r.UserID, ierr)
		}
		icancel()
	}

	logger.Debugf("[groupMessage] user=%s group=%s id=%s members=%d", userID, p.GroupID, id, len(members))
	return nil
}
