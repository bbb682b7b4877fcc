// Package identity implements the identity-provider collaborator contract on
// top of MongoDB: an accounts collection holding email, bcrypt password hash,
// display name, and custom claims per account. Account uids are random UUIDs
// and double as the document-store record key.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

const accountsCollection = "accounts"

// Provider satisfies ports.IdentityProvider.
type Provider struct {
	coll *mongo.Collection
}

func NewProvider(db *mongo.Database) *Provider {
	return &Provider{coll: db.Collection(accountsCollection)}
}

type accountDoc struct {
	UID          string            `bson:"_id"`
	Email        string            `bson:"email"`
	PasswordHash string            `bson:"password_hash"`
	DisplayName  string            `bson:"display_name"`
	Claims       map[string]string `bson:"claims"`
	CreatedAt    time.Time         `bson:"created_at"`
}

// CreateAccount provisions a new account and returns its uid.
func (p *Provider) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.Internal("failed to hash password", err)
	}

	doc := accountDoc{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Claims:       map[string]string{},
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := p.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.E(domain.KindAlreadyExists, "the email address is already in use by another account")
		}
		return "", domain.Internal("identity provider: create account", err)
	}
	return doc.UID, nil
}

// SetClaims replaces the custom claims on an account.
func (p *Provider) SetClaims(ctx context.Context, uid string, claims map[string]string) error {
	res, err := p.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"claims": claims}})
	if err != nil {
		return domain.Internal("identity provider: set claims", err)
	}
	if res.MatchedCount == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// DeleteAccount removes an account.
func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	res, err := p.coll.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return domain.Internal("identity provider: delete account", err)
	}
	if res.DeletedCount == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// VerifyPassword checks email+password for the login flow.
func (p *Provider) VerifyPassword(ctx context.Context, email, password string) (string, map[string]string, error) {
	var doc accountDoc
	if err := p.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, domain.E(domain.KindNotFound, "user not found")
		}
		return "", nil, domain.Internal("identity provider: find account", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.E(domain.KindUnauthenticated, "invalid credentials")
	}
	return doc.UID, doc.Claims, nil
}

// EnsureIndexes creates the unique email index that backs the
// already_exists mapping in CreateAccount.
func (p *Provider) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("identity indexes: %w", err)
	}
	return nil
}
