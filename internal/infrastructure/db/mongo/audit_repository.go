package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// AuditRepository persists audit trail entries to the audit_log collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection("audit_log")}
}

// Insert appends a single entry. The trail is append-only.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	doc := bson.M{
		"actor_uid":   e.ActorUID,
		"action":      e.Action,
		"target_uid":  e.TargetUID,
		"timestamp":   e.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if e.Detail != "" {
		doc["detail"] = e.Detail
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
