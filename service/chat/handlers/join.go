package handlers

import (
	"Projease/logger"
	"Projease/service/chat"
	"Projease/tools/errs"
)

// JoinGroupHandler subscribes a registered connection to a group's
// broadcast channel. Register-before-join is mandatory; joining twice
// is idempotent.
type JoinGroupHandler struct{}

func NewJoinGroupHandler() chat.Handler { return &JoinGroupHandler{} }

func (h *JoinGroupHandler) Event() string { return chat.EventJoinGroup }

func (h *JoinGroupHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	groupID := chat.DecodeStringArg(f.Data, "groupId")
	if groupID == "" {
		c.Enqueue(chat.BuildError("Invalid group ID."))
		return nil
	}

	userID, err := ctx.S.RequireUser(c.ConnID)
	if err != nil {
		if errs.ErrNotRegistered.Is(err) {
			c.Enqueue(chat.BuildError("You must register before joining a group."))
			return nil
		}
		return err
	}

	err = ctx.S.Groups().Join(groupID, c)
	alreadyJoined := errs.ErrAlreadyJoined.Is(err)
	if err != nil && !alreadyJoined {
		return err
	}
	logger.Infof("[joinGroup] user=%s conn=%s group=%s already=%v", userID, c.ConnID, groupID, alreadyJoined)
	c.Enqueue(chat.BuildGroupJoinResponse(groupID, alreadyJoined))
	return nil
}
