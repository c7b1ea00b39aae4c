package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const UserCollection = "users"

// Joined project status. At most one entry per user is active; joining
// a project flips the previous active entry to passive.
const (
	ProjectStatusActive  = "active"
	ProjectStatusPassive = "passive"
)

type JoinedProject struct {
	ProjectID string `bson:"projectId" json:"projectId"`
	Status    string `bson:"status" json:"status"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	JoinedProjects []JoinedProject    `bson:"joinedProjects,omitempty" json:"joinedProjects,omitempty"`
}
