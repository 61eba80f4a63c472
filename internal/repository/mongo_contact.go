package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhishek622/portfolio/pkg/model"
)

type mongoContactRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	Read      bool               `bson:"read"`
	Responded bool               `bson:"responded"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d contactDocument) toModel() model.ContactMessage {
	return model.ContactMessage{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		Read:      d.Read,
		Responded: d.Responded,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func buildContactFilter(f model.ContactFilter) bson.M {
	filter := bson.M{}
	if f.Read != nil {
		filter["read"] = *f.Read
	}
	if f.Responded != nil {
		filter["responded"] = *f.Responded
	}
	return filter
}

func (r *mongoContactRepo) CreateContact(ctx context.Context, m *model.ContactMessage) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	now := mongoNow()
	doc := contactDocument{
		ID:        primitive.NewObjectID(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Read:      m.Read,
		Responded: m.Responded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	m.ID = doc.ID.Hex()
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func (r *mongoContactRepo) ListContacts(ctx context.Context, f model.ContactFilter, skip, limit int64) ([]model.ContactMessage, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(max(skip, 0)).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, buildContactFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find contact messages: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []contactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contact messages: %w", err)
	}
	out := make([]model.ContactMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (r *mongoContactRepo) CountContacts(ctx context.Context, f model.ContactFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, buildContactFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}

func (r *mongoContactRepo) GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc contactDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find contact message %s: %w", id, err)
	}
	m := doc.toModel()
	return &m, nil
}

func (r *mongoContactRepo) UpdateContact(ctx context.Context, id string, upd model.UpdateContactReq) (*model.ContactMessage, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	set := bson.M{"updatedAt": mongoNow()}
	if upd.Read != nil {
		set["read"] = *upd.Read
	}
	if upd.Responded != nil {
		set["responded"] = *upd.Responded
	}

	var doc contactDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update contact message %s: %w", id, err)
	}
	m := doc.toModel()
	return &m, nil
}

func (r *mongoContactRepo) DeleteContact(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
