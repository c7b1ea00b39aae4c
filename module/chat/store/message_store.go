package store

import (
	"context"
	"time"

	"Projease/module/chat/model"
	"Projease/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageStore is the append-only persistence for chat messages.
type MessageStore struct {
	coll *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{coll: db.Collection(model.MessageCollection)}
}

// Insert persists one message and returns the assigned id in hex form.
// The insert must be acknowledged before the caller may broadcast.
func (s *MessageStore) Insert(ctx context.Context, sender map[string]any, msgObj map[string]any) (string, error) {
	msg := &model.Message{
		Sender:    sender,
		MsgObj:    msgObj,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return "", errs.ErrPersistence.WrapMsg(err.Error())
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errs.ErrPersistence.WrapMsg("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// Delete removes a message by id. ErrNotFound when no document matched.
func (s *MessageStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrInvalidInput.WrapMsg("bad message id")
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errs.ErrPersistence.WrapMsg(err.Error())
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound.Wrap()
	}
	return nil
}

// ListByGroup returns a group's messages in delivery order.
func (s *MessageStore) ListByGroup(ctx context.Context, groupID string) ([]model.Message, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"msgObj.groupChatId": groupID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg(err.Error())
	}
	defer cur.Close(ctx)

	var out []model.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrPersistence.WrapMsg(err.Error())
	}
	return out, nil
}
