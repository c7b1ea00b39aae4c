package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ChatGroupCollection = "chat-group"

// ChatGroup is the durable companion document of a broadcast group.
// ProjectID doubles as the group id on the socket side: one project,
// one chat group.
//
// UnseenMessageCount maps userId -> messages delivered while that user
// had no live connection. Mutated only through atomic update operators.
type ChatGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProjectID string             `bson:"projectId" json:"projectId"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`

	UnseenMessageCount map[string]int64 `bson:"unseenMessageCount,omitempty" json:"unseenMessageCount,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
