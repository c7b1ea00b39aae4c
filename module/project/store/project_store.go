package store

import (
	"context"
	"time"

	"Projease/module/project/model"
	"Projease/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectStore backs the join gate with the projects collection.
type ProjectStore struct {
	coll *mongo.Collection
}

func NewProjectStore(db *mongo.Database) *ProjectStore {
	return &ProjectStore{coll: db.Collection(model.ProjectCollection)}
}

func projectFilter(projectID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, errs.ErrInvalidInput.WrapMsg("bad project id")
	}
	return bson.M{"_id": oid}, nil
}

// GetJoinInfo loads only the join-relevant fields of the project.
func (s *ProjectStore) GetJoinInfo(ctx context.Context, projectID string) (*model.Project, error) {
	filter, err := projectFilter(projectID)
	if err != nil {
		return nil, err
	}
	var proj model.Project
	err = s.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{
		"projectPassword": 1,
		"attemptTracker":  1,
		"members":         1,
		"isPrivate":       1,
	})).Decode(&proj)
	if err == mongo.ErrNoDocuments {
		return nil, errs.ErrNotFound.Wrap()
	}
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return &proj, nil
}

// RecordFailure bumps the user's attempt counter with $inc and stamps
// lastAttempt in the same update, then returns the post-increment count.
// Concurrent failures against the same tracker therefore never undercount.
func (s *ProjectStore) RecordFailure(ctx context.Context, projectID, userID string, at time.Time) (int, error) {
	filter, err := projectFilter(projectID)
	if err != nil {
		return 0, err
	}
	var updated model.Project
	err = s.coll.FindOneAndUpdate(ctx, filter,
		bson.M{
			"$inc": bson.M{"attemptTracker." + userID + ".attempts": 1},
			"$set": bson.M{"attemptTracker." + userID + ".lastAttempt": at.UTC()},
		},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"attemptTracker": 1}),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, errs.ErrNotFound.Wrap()
	}
	if err != nil {
		return 0, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return updated.TrackerFor(userID).Attempts, nil
}

// GrantMembership resets the tracker and appends the member entry.
func (s *ProjectStore) GrantMembership(ctx context.Context, projectID, userID string) error {
	filter, err := projectFilter(projectID)
	if err != nil {
		return err
	}
	_, err = s.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"attemptTracker." + userID: model.AttemptEntry{Attempts: 0, LastAttempt: nil},
		},
		"$push": bson.M{
			"members": model.Member{UserID: userID, Role: model.RoleMember},
		},
	})
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	return nil
}
