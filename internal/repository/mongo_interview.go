package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhishek622/portfolio/pkg/model"
)

type mongoInterviewRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

type interviewDocument struct {
	ID              primitive.ObjectID    `bson:"_id,omitempty"`
	Company         string                `bson:"company"`
	Role            string                `bson:"role"`
	Date            time.Time             `bson:"date"`
	Difficulty      string                `bson:"difficulty"`
	Type            string                `bson:"type"`
	Featured        bool                  `bson:"featured"`
	CompanyLogo     string                `bson:"companyLogo,omitempty"`
	Tags            []string              `bson:"tags"`
	Rounds          []model.Round         `bson:"rounds"`
	DetailedWriteup model.DetailedWriteup `bson:"detailedWriteup"`
	CreatedAt       time.Time             `bson:"createdAt"`
	UpdatedAt       time.Time             `bson:"updatedAt"`
}

func toInterviewDocument(e *model.InterviewExperience) interviewDocument {
	return interviewDocument{
		Company:         e.Company,
		Role:            e.Role,
		Date:            e.Date,
		Difficulty:      string(e.Difficulty),
		Type:            string(e.Type),
		Featured:        e.Featured,
		CompanyLogo:     e.CompanyLogo,
		Tags:            nonNil(e.Tags),
		Rounds:          e.Rounds,
		DetailedWriteup: e.DetailedWriteup,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (d interviewDocument) toModel() model.InterviewExperience {
	rounds := d.Rounds
	if rounds == nil {
		rounds = []model.Round{}
	}
	return model.InterviewExperience{
		ID:              d.ID.Hex(),
		Company:         d.Company,
		Role:            d.Role,
		Date:            d.Date,
		Difficulty:      model.Difficulty(d.Difficulty),
		Type:            model.InterviewType(d.Type),
		Featured:        d.Featured,
		CompanyLogo:     d.CompanyLogo,
		Tags:            nonNil(d.Tags),
		Rounds:          rounds,
		DetailedWriteup: d.DetailedWriteup,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// buildInterviewFilter translates f into a Mongo query. Company and role are
// case-insensitive substring matches; the user text is escaped so it is never
// interpreted as a pattern.
func buildInterviewFilter(f model.InterviewFilter) bson.M {
	filter := bson.M{}
	if f.Company != "" {
		filter["company"] = bson.M{"$regex": regexp.QuoteMeta(f.Company), "$options": "i"}
	}
	if f.Role != "" {
		filter["role"] = bson.M{"$regex": regexp.QuoteMeta(f.Role), "$options": "i"}
	}
	if f.Difficulty != "" {
		filter["difficulty"] = string(f.Difficulty)
	}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.FeaturedOnly {
		filter["featured"] = true
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}
	return filter
}

func interviewFindOptions(f model.InterviewFilter, skip, limit int64) *options.FindOptions {
	opts := options.Find().SetSkip(max(skip, 0)).SetLimit(limit)
	if f.Search != "" {
		score := bson.M{"$meta": "textScore"}
		return opts.
			SetProjection(bson.M{"score": score}).
			SetSort(bson.D{{Key: "score", Value: score}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	}
	return opts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func (r *mongoInterviewRepo) ListInterviews(ctx context.Context, f model.InterviewFilter, skip, limit int64) ([]model.InterviewExperience, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, buildInterviewFilter(f), interviewFindOptions(f, skip, limit))
	if err != nil {
		return nil, fmt.Errorf("find interviews: %w", err)
	}
	return decodeInterviews(ctx, cur)
}

func (r *mongoInterviewRepo) CountInterviews(ctx context.Context, f model.InterviewFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, buildInterviewFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count interviews: %w", err)
	}
	return n, nil
}

func (r *mongoInterviewRepo) GetInterviewByID(ctx context.Context, id string) (*model.InterviewExperience, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc interviewDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find interview %s: %w", id, err)
	}
	e := doc.toModel()
	return &e, nil
}

func (r *mongoInterviewRepo) DistinctCompanies(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "company", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct companies: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *mongoInterviewRepo) ListFeatured(ctx context.Context, limit int64) ([]model.InterviewExperience, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"featured": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find featured interviews: %w", err)
	}
	return decodeInterviews(ctx, cur)
}

func (r *mongoInterviewRepo) CreateInterview(ctx context.Context, e *model.InterviewExperience) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	now := mongoNow()
	e.CreatedAt, e.UpdatedAt = now, now
	doc := toInterviewDocument(e)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *mongoInterviewRepo) ReplaceInterview(ctx context.Context, e *model.InterviewExperience) error {
	oid, err := parseObjectID(e.ID)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	e.UpdatedAt = mongoNow()
	doc := toInterviewDocument(e)
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replace interview %s: %w", e.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoInterviewRepo) DeleteInterview(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete interview %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeInterviews(ctx context.Context, cur *mongo.Cursor) ([]model.InterviewExperience, error) {
	defer func() { _ = cur.Close(ctx) }()

	var docs []interviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode interviews: %w", err)
	}
	out := make([]model.InterviewExperience, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
