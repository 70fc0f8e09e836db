package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quoteshorts/api/internal/domain"
)

// DefaultCollection is the collection quotes live in.
const DefaultCollection = "quotes"

// record is the persisted shape of a quote.
type record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Author    string             `bson:"author"`
	Book      string             `bson:"book"`
	Category  string             `bson:"category"`
	Likes     int64              `bson:"likes"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (r *record) toDomain() *domain.Quote {
	return &domain.Quote{
		ID:        r.ID.Hex(),
		Text:      r.Text,
		Author:    r.Author,
		Book:      r.Book,
		Category:  r.Category,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repository implements ports.QuoteRepository on a MongoDB collection.
type Repository struct {
	col *mongo.Collection
}

// NewRepository wraps a collection as a quote repository.
func NewRepository(col *mongo.Collection) *Repository {
	return &Repository{col: col}
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call
// on every startup since index creation is idempotent.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "likes", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, models); err != nil {
		return domain.NewUnavailableError("create indexes", err)
	}

	return nil
}

// parseID converts a hex ID to an ObjectID, flagging malformed input as a
// validation problem rather than a missing record.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewInvalidIDError(id)
	}

	return oid, nil
}

// buildFilter translates a domain filter to a Mongo query document. Search
// terms are escaped so metacharacters match literally and the query behaves
// as plain substring containment.
func buildFilter(filter domain.QuoteFilter) bson.M {
	query := bson.M{}

	if filter.Category != "" {
		query["category"] = filter.Category
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"text": pattern},
			bson.M{"author": pattern},
			bson.M{"book": pattern},
			bson.M{"category": pattern},
		}
	}

	return query
}

// buildSort translates the domain sort spec to a Mongo sort document.
func buildSort(filter domain.QuoteFilter) bson.D {
	if filter.SortBy == "" {
		return nil
	}

	dir := -1
	if filter.Order == domain.SortAsc {
		dir = 1
	}

	return bson.D{{Key: string(filter.SortBy), Value: dir}}
}

// Find implements ports.QuoteRepository.
func (r *Repository) Find(ctx context.Context, filter domain.QuoteFilter) ([]domain.Quote, error) {
	opts := options.Find()
	if sort := buildSort(filter); sort != nil {
		opts.SetSort(sort)
	}

	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}

	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := r.col.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, domain.NewUnavailableError("find quotes", err)
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

// Count implements ports.QuoteRepository.
func (r *Repository) Count(ctx context.Context, filter domain.QuoteFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, domain.NewUnavailableError("count quotes", err)
	}

	return n, nil
}

// GetByID implements ports.QuoteRepository.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("quote", id)
		}

		return nil, domain.NewUnavailableError("get quote", err)
	}

	return rec.toDomain(), nil
}

// Sample implements ports.QuoteRepository using a $sample stage, which
// draws uniformly over the matching documents.
func (r *Repository) Sample(ctx context.Context, category string) (*domain.Quote, error) {
	pipeline := mongo.Pipeline{}
	if category != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"category": category}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$sample", Value: bson.M{"size": 1}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, domain.NewUnavailableError("sample quote", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, domain.NewUnavailableError("sample quote", err)
		}

		return nil, domain.NewNotFoundError("quote", "")
	}

	var rec record
	if err := cur.Decode(&rec); err != nil {
		return nil, domain.NewUnavailableError("sample quote", err)
	}

	return rec.toDomain(), nil
}

// Insert implements ports.QuoteRepository.
func (r *Repository) Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	now := time.Now().UTC()
	rec := record{
		Text:      quote.Text,
		Author:    quote.Author,
		Book:      quote.Book,
		Category:  quote.Category,
		Likes:     quote.Likes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, &rec)
	if err != nil {
		return nil, domain.NewUnavailableError("insert quote", err)
	}

	rec.ID = res.InsertedID.(primitive.ObjectID)

	return rec.toDomain(), nil
}

// buildUpdate translates a partial update to a $set document.
func buildUpdate(update domain.QuoteUpdate) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if update.Text != nil {
		set["text"] = *update.Text
	}

	if update.Author != nil {
		set["author"] = *update.Author
	}

	if update.Book != nil {
		set["book"] = *update.Book
	}

	if update.Category != nil {
		set["category"] = *update.Category
	}

	if update.Likes != nil {
		set["likes"] = *update.Likes
	}

	return bson.M{"$set": set}
}

// Update implements ports.QuoteRepository.
func (r *Repository) Update(ctx context.Context, id string, update domain.QuoteUpdate) (*domain.Quote, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec record
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, buildUpdate(update), opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("quote", id)
		}

		return nil, domain.NewUnavailableError("update quote", err)
	}

	return rec.toDomain(), nil
}

// IncrementLikes implements ports.QuoteRepository. The $inc operator makes
// the update atomic server-side, so concurrent likes never lose counts.
func (r *Repository) IncrementLikes(ctx context.Context, id string) (*domain.Quote, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	change := bson.M{
		"$inc": bson.M{"likes": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec record
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, change, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("quote", id)
		}

		return nil, domain.NewUnavailableError("increment likes", err)
	}

	return rec.toDomain(), nil
}

// Delete implements ports.QuoteRepository.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewUnavailableError("delete quote", err)
	}

	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("quote", id)
	}

	return nil
}

// SumLikes implements ports.QuoteRepository.
func (r *Repository) SumLikes(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$likes"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, domain.NewUnavailableError("sum likes", err)
	}
	defer cur.Close(ctx)

	// No documents means an empty collection, which sums to zero.
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return 0, domain.NewUnavailableError("sum likes", err)
		}

		return 0, nil
	}

	var out struct {
		Total int64 `bson:"total"`
	}
	if err := cur.Decode(&out); err != nil {
		return 0, domain.NewUnavailableError("sum likes", err)
	}

	return out.Total, nil
}

// MostLiked implements ports.QuoteRepository.
func (r *Repository) MostLiked(ctx context.Context, limit int64) ([]domain.Quote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "likes", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewUnavailableError("most liked quotes", err)
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

// CategoryStats implements ports.QuoteRepository via a single $group
// aggregation rather than per-category round trips.
func (r *Repository) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"totalLikes": bson.M{"$sum": "$likes"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, domain.NewUnavailableError("category stats", err)
	}
	defer cur.Close(ctx)

	stats := []domain.CategoryStat{}
	for cur.Next(ctx) {
		var row struct {
			Name       string `bson:"_id"`
			Count      int64  `bson:"count"`
			TotalLikes int64  `bson:"totalLikes"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, domain.NewUnavailableError("category stats", err)
		}

		stats = append(stats, domain.CategoryStat{
			Name:       row.Name,
			Count:      row.Count,
			TotalLikes: row.TotalLikes,
		})
	}

	if err := cur.Err(); err != nil {
		return nil, domain.NewUnavailableError("category stats", err)
	}

	return stats, nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]domain.Quote, error) {
	out := []domain.Quote{}
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, domain.NewUnavailableError("decode quote", err)
		}

		out = append(out, *rec.toDomain())
	}

	if err := cur.Err(); err != nil {
		return nil, domain.NewUnavailableError("read quotes", err)
	}

	return out, nil
}
