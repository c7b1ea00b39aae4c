package store

import (
	"context"

	"Projease/module/project/model"
	"Projease/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore maintains the joinedProjects list on user documents.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(model.UserCollection)}
}

// SetActiveProject flips the current active entry (if any) to passive
// and appends projectID as the new active one. Single-active-project is
// an application-layer invariant, enforced here.
func (s *UserStore) SetActiveProject(ctx context.Context, userID, projectID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errs.ErrInvalidInput.WrapMsg("bad user id")
	}
	filter := bson.M{"_id": oid}

	var user model.User
	err = s.coll.FindOne(ctx, filter,
		options.FindOne().SetProjection(bson.M{"joinedProjects": 1}),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return errs.ErrNotFound.Wrap()
	}
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}

	updated := make([]model.JoinedProject, 0, len(user.JoinedProjects)+1)
	for _, p := range user.JoinedProjects {
		if p.Status == model.ProjectStatusActive {
			p.Status = model.ProjectStatusPassive
		}
		updated = append(updated, p)
	}
	updated = append(updated, model.JoinedProject{
		ProjectID: projectID,
		Status:    model.ProjectStatusActive,
	})

	_, err = s.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"joinedProjects": updated}})
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	return nil
}
