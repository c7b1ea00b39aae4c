package store

import (
	"context"
	"time"

	"Projease/module/chat/model"
	"Projease/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UnseenStore keeps the per-group, per-user offline message counters
// inside the chat-group documents. All mutations go through atomic
// update operators; counters are at-least-once, not crash-consistent.
type UnseenStore struct {
	coll *mongo.Collection
}

func NewUnseenStore(db *mongo.Database) *UnseenStore {
	return &UnseenStore{coll: db.Collection(model.ChatGroupCollection)}
}

func counterField(userID string) string {
	return "unseenMessageCount." + userID
}

// Increment bumps the counter for (groupID, userID) by one, creating
// the chat-group document and the counter when absent.
func (s *UnseenStore) Increment(ctx context.Context, groupID, userID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"projectId": groupID},
		bson.M{
			"$inc":         bson.M{counterField(userID): 1},
			"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	return nil
}

// Reset zeroes the counter for one group.
func (s *UnseenStore) Reset(ctx context.Context, groupID, userID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"projectId": groupID},
		bson.M{"$set": bson.M{counterField(userID): 0}},
	)
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	return nil
}

// ResetAll zeroes the user's counters in every group holding one.
// Called on (re)registration: reconnect clears all pending badges.
func (s *UnseenStore) ResetAll(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{counterField(userID): bson.M{"$gt": 0}},
		bson.M{"$set": bson.M{counterField(userID): 0}},
	)
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	return nil
}

// Read returns the counter for (groupID, userID); 0 when absent,
// ErrNotFound when the chat group itself does not exist.
func (s *UnseenStore) Read(ctx context.Context, groupID, userID string) (int64, error) {
	var doc model.ChatGroup
	err := s.coll.FindOne(ctx,
		bson.M{"projectId": groupID},
		options.FindOne().SetProjection(bson.M{"unseenMessageCount": 1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, errs.ErrNotFound.Wrap()
	}
	if err != nil {
		return 0, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return doc.UnseenMessageCount[userID], nil
}

// GetGroup fetches the whole chat-group document for a project.
func (s *UnseenStore) GetGroup(ctx context.Context, projectID string) (*model.ChatGroup, error) {
	var doc model.ChatGroup
	err := s.coll.FindOne(ctx, bson.M{"projectId": projectID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errs.ErrNotFound.Wrap()
	}
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return &doc, nil
}

// EnsureGroup lazily creates the chat-group document for a project.
func (s *UnseenStore) EnsureGroup(ctx context.Context, projectID, name string) (*model.ChatGroup, error) {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"projectId": projectID},
		bson.M{
			"$setOnInsert": bson.M{
				"name":      name,
				"createdAt": time.Now().UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return s.GetGroup(ctx, projectID)
}
