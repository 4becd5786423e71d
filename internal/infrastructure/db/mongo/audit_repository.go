package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

const auditCollection = "audit_events"

const defaultLogLimit = 100

// AuditRepository stores audit events in the external Mongo database. It is
// both the sink the dispatcher delivers to and the log the root-only logs
// view reads from.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Action    string            `bson:"action"`
	Actor     string            `bson:"actor"`
	Detail    map[string]string `bson:"detail,omitempty"`
	Timestamp int64             `bson:"timestamp"`
}

// Notify persists a single audit event.
func (r *AuditRepository) Notify(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Action:    event.Action,
		Actor:     event.Actor,
		Detail:    event.Detail,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (r *AuditRepository) Recent(ctx context.Context, limit int64) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.AuditEvent
	for cur.Next(ctx) {
		var me mongoAuditEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, domain.AuditEvent{
			Action:    me.Action,
			Actor:     me.Actor,
			Detail:    me.Detail,
			Timestamp: time.Unix(me.Timestamp, 0).UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
