package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MessageCollection = "messages"

// Message is one chat message as persisted in the messages collection.
// Sender is the registration profile snapshot with the connection handle
// stripped; MsgObj is the client-supplied body and carries groupChatId,
// which associates the message with its group.
type Message struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Sender map[string]any     `bson:"sender" json:"sender"`
	MsgObj map[string]any     `bson:"msgObj" json:"msgObj"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// GroupID returns the group association carried inside the body,
// empty when the body has none.
func (m *Message) GroupID() string {
	if m.MsgObj == nil {
		return ""
	}
	if v, ok := m.MsgObj["groupChatId"].(string); ok {
		return v
	}
	return ""
}
