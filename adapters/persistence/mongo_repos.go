package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// Ids are stored as their canonical string form.

type userDoc struct {
	ID       string    `bson:"_id"`
	Name     string    `bson:"name"`
	Email    string    `bson:"email"`
	Avatar   string    `bson:"avatar"`
	Password string    `bson:"password"`
	Date     time.Time `bson:"date"`
}

type experienceDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDoc struct {
	ID             string          `bson:"_id"`
	User           string          `bson:"user"`
	Company        string          `bson:"company,omitempty"`
	Website        string          `bson:"website,omitempty"`
	Location       string          `bson:"location,omitempty"`
	Status         string          `bson:"status"`
	Skills         []string        `bson:"skills"`
	Bio            string          `bson:"bio,omitempty"`
	GitHubUsername string          `bson:"githubusername,omitempty"`
	Social         profile.Social  `bson:"social"`
	Experience     []experienceDoc `bson:"experience"`
	Education      []educationDoc  `bson:"education"`
	Date           time.Time       `bson:"date"`
	// Owner is filled by the $lookup stage only.
	Owner []userDoc `bson:"owner,omitempty"`
}

type postDoc struct {
	ID     string    `bson:"_id"`
	User   string    `bson:"user"`
	Text   string    `bson:"text"`
	Name   string    `bson:"name"`
	Avatar string    `bson:"avatar"`
	Date   time.Time `bson:"date"`
}

func toProfileDoc(p *profile.Profile) profileDoc {
	doc := profileDoc{
		ID:             p.ID.String(),
		User:           p.UserID.String(),
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         nonNil(p.Skills),
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Social:         p.Social,
		Experience:     make([]experienceDoc, len(p.Experience)),
		Education:      make([]educationDoc, len(p.Education)),
		Date:           p.Date,
	}
	for i, e := range p.Experience {
		doc.Experience[i] = experienceDoc{
			ID: e.ID.String(), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range p.Education {
		doc.Education[i] = educationDoc{
			ID: e.ID.String(), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return doc
}

func (d profileDoc) toDomain(log logger.Logger) *profile.Profile {
	p := &profile.Profile{
		ID:             parseStoredID(d.ID, log),
		UserID:         parseStoredID(d.User, log),
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Status:         d.Status,
		Skills:         nonNil(d.Skills),
		Bio:            d.Bio,
		GitHubUsername: d.GitHubUsername,
		Social:         d.Social,
		Experience:     make([]profile.Experience, len(d.Experience)),
		Education:      make([]profile.Education, len(d.Education)),
		Date:           d.Date,
	}
	for i, e := range d.Experience {
		p.Experience[i] = profile.Experience{
			ID: parseStoredID(e.ID, log), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range d.Education {
		p.Education[i] = profile.Education{
			ID: parseStoredID(e.ID, log), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	if len(d.Owner) > 0 {
		o := d.Owner[0]
		p.Owner = &profile.Owner{ID: parseStoredID(o.ID, log), Name: o.Name, Avatar: o.Avatar}
	}
	return p
}

func parseStoredID(raw string, log logger.Logger) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("Stored id is not a uuid", zap.String("id", raw))
	}
	return id
}

type mongoProfileRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoProfileRepo(db *mongo.Database, logger logger.Logger) profile.Repository {
	return &mongoProfileRepo{coll: db.Collection(profilesCollection), logger: logger}
}

func ownerLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: "user"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "owner"},
	}}}
}

func (r *mongoProfileRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*profile.Profile, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer cursor.Close(ctx)

	profiles := make([]*profile.Profile, 0)
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperror.NewInternal("failed to decode profile", err)
		}
		profiles = append(profiles, doc.toDomain(r.logger))
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profiles", err)
	}
	return profiles, nil
}

func (r *mongoProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	profiles, err := r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user", Value: userID.String()}}}},
		{{Key: "$limit", Value: 1}},
		ownerLookup(),
	})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, profile.ErrProfileNotFound
	}
	return profiles[0], nil
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}}},
		ownerLookup(),
	})
}

func (r *mongoProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	doc := toProfileDoc(p)
	_, err := r.coll.ReplaceOne(ctx,
		bson.D{{Key: "user", Value: doc.User}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}

func (r *mongoProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "user", Value: userID.String()}}); err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	return nil
}

type mongoUserRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoUserRepo(db *mongo.Database, logger logger.Logger) user.Repository {
	return &mongoUserRepo{coll: db.Collection(usersCollection), logger: logger}
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperror.NewInternal("error when query user", err)
	}
	return &user.User{
		ID:           parseStoredID(doc.ID, r.logger),
		Name:         doc.Name,
		Email:        doc.Email,
		Avatar:       doc.Avatar,
		PasswordHash: doc.Password,
		Date:         doc.Date,
	}, nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *mongoUserRepo) Save(ctx context.Context, u *user.User) error {
	doc := userDoc{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Password: u.PasswordHash,
		Date:     u.Date,
	}
	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return apperror.NewInternal("failed to save user", err)
	}
	return nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}}); err != nil {
		return apperror.NewInternal("failed to delete user", err)
	}
	return nil
}

type mongoPostRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoPostRepo(db *mongo.Database, logger logger.Logger) post.Repository {
	return &mongoPostRepo{coll: db.Collection(postsCollection), logger: logger}
}

func (r *mongoPostRepo) Save(ctx context.Context, p *post.Post) error {
	doc := postDoc{
		ID:     p.ID.String(),
		User:   p.UserID.String(),
		Text:   p.Text,
		Name:   p.Name,
		Avatar: p.Avatar,
		Date:   p.Date,
	}
	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperror.NewInternal("failed to save post", err)
	}
	return nil
}

func (r *mongoPostRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "user", Value: userID.String()}})
	if err != nil {
		return 0, apperror.NewInternal("failed to count posts", err)
	}
	return int(n), nil
}

func (r *mongoPostRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "user", Value: userID.String()}})
	if err != nil {
		return apperror.NewInternal("failed to delete posts", err)
	}
	r.logger.Debug("Deleted posts", zap.String("user_id", userID.String()), zap.Int64("count", res.DeletedCount))
	return nil
}
