package handlers

import (
	"Projease/logger"
	"Projease/service/chat"
	"Projease/tools/errs"
)

// DeleteMessageHandler removes a persisted message and acknowledges the
// requesting connection only. Other members are not notified; their
// view of the group goes stale until reloaded.
type DeleteMessageHandler struct{}

func NewDeleteMessageHandler() chat.Handler { return &DeleteMessageHandler{} }

func (h *DeleteMessageHandler) Event() string { return chat.EventDeleteMessage }

func (h *DeleteMessageHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	messageID := chat.DecodeStringArg(f.Data, "messageId")
	if messageID == "" {
		c.Enqueue(chat.BuildError("A messageId is required."))
		return nil
	}

	if _, err := ctx.S.RequireUser(c.ConnID); err != nil {
		if errs.ErrNotRegistered.Is(err) {
			c.Enqueue(chat.BuildError("You must register before deleting messages."))
			return nil
		}
		return err
	}

	sctx, cancel := ctx.S.StoreCtx()
	err := ctx.S.Messages().Delete(sctx, messageID)
	cancel()
	switch {
	case err == nil:
		c.Enqueue(chat.BuildDeleteMessageResponse(true, "Message deleted."))
	case errs.ErrNotFound.Is(err):
		c.Enqueue(chat.BuildDeleteMessageResponse(false, "Message not found."))
	default:
		logger.Errorf("[deleteMessage] id=%s: %v", messageID, err)
		c.Enqueue(chat.BuildDeleteMessageResponse(false, "Failed to delete message."))
	}
	return nil
}
