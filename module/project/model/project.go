package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ProjectCollection = "projects"

// Member roles.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// AttemptEntry records one user's failed join-password attempts against
// a project. Attempts increments atomically on each mismatch; once it
// reaches the configured limit and LastAttempt is inside the lockout
// window, further joins are refused without a password comparison.
type AttemptEntry struct {
	Attempts    int        `bson:"attempts" json:"attempts"`
	LastAttempt *time.Time `bson:"lastAttempt" json:"lastAttempt"`
}

type Member struct {
	UserID string `bson:"userId" json:"userId"`
	Role   string `bson:"role" json:"role"`
}

// Project holds the join-relevant slice of a project document.
// ProjectPassword is a bcrypt hash for new documents; legacy documents
// may still carry plaintext (see gate.verifyPassword).
type Project struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty" json:"_id,omitempty"`
	Name            string                  `bson:"name,omitempty" json:"name,omitempty"`
	ProjectPassword string                  `bson:"projectPassword" json:"-"`
	IsPrivate       bool                    `bson:"isPrivate" json:"isPrivate"`
	Members         []Member                `bson:"members,omitempty" json:"members,omitempty"`
	AttemptTracker  map[string]AttemptEntry `bson:"attemptTracker,omitempty" json:"-"`
}

// TrackerFor returns the user's attempt entry, zero-valued when absent.
func (p *Project) TrackerFor(userID string) AttemptEntry {
	if p.AttemptTracker == nil {
		return AttemptEntry{}
	}
	return p.AttemptTracker[userID]
}
