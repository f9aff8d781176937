package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/identity-service/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository persists roles in MongoDB. The unique index on name (see
// EnsureIndexes) is the authority on name uniqueness.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	DisplayName string             `bson:"display_name"`
	Description string             `bson:"description,omitempty"`
	Permissions []string           `bson:"permissions"`
	IsActive    bool               `bson:"is_active"`
	Priority    int                `bson:"priority"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (d roleDoc) toDomain() *domain.Role {
	perms := d.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &domain.Role{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Description: d.Description,
		Permissions: perms,
		IsActive:    d.IsActive,
		Priority:    d.Priority,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc roleDoc
	err := r.coll.FindOne(ctx, bson.M{"name": domain.CanonicalRoleName(name)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns all roles, highest priority first, newest first within a
// priority.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	return r.list(ctx, bson.M{})
}

// ListActive returns active roles, highest priority first.
func (r *RoleRepository) ListActive(ctx context.Context) ([]domain.Role, error) {
	return r.list(ctx, bson.M{"is_active": true})
}

func (r *RoleRepository) list(ctx context.Context, filter bson.M) ([]domain.Role, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	roles := []domain.Role{}
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		roles = append(roles, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (r *RoleRepository) Insert(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	doc := roleDoc{
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Permissions: role.Permissions,
		IsActive:    role.IsActive,
		Priority:    role.Priority,
		CreatedAt:   role.CreatedAt.Unix(),
		UpdatedAt:   role.UpdatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(role.ID)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}

	set := bson.M{
		"display_name": role.DisplayName,
		"description":  role.Description,
		"permissions":  role.Permissions,
		"is_active":    role.IsActive,
		"priority":     role.Priority,
		"updated_at":   time.Now().UTC().Unix(),
	}

	var doc roleDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRoleNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
