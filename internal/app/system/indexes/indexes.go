// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := reconciler{log: logger}

	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"accounts", accountIndexes()},
		{"users", userIndexes()},
		{"organizations", organizationIndexes()},
		{"schools", schoolIndexes()},
		{"school_members", memberIndexes()},
		{"invitations", invitationIndexes()},
		{"daily_status", dailyStatusIndexes()},
		{"checklist_records", checklistIndexes()},
		{"signature_requests", signatureRequestIndexes()},
		{"audit_events", auditIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := r.ensure(ctx, db.Collection(s.coll), s.models); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Desired indexes per collection                                             */
/* -------------------------------------------------------------------------- */

func named(name string) *options.IndexOptions {
	return options.Index().SetName(name)
}

func accountIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: named("uniq_accounts_email").SetUnique(true)},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// status reset scans every student
		{Keys: bson.D{{Key: "role", Value: 1}}, Options: named("idx_users_role")},
		{Keys: bson.D{{Key: "organization_id", Value: 1}}, Options: named("idx_users_org")},
		{Keys: bson.D{{Key: "school_ids", Value: 1}}, Options: named("idx_users_school_ids")},
	}
}

func organizationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: named("idx_organizations_nameci")},
	}
}

func schoolIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "name_ci", Value: 1}}, Options: named("idx_schools_org_nameci")},
	}
}

func memberIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "role", Value: 1}}, Options: named("idx_school_members_school_role")},
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: named("idx_school_members_uid")},
	}
}

func invitationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: named("uniq_invitations_token").SetUnique(true)},
		// At most one pending invitation per (email, school).
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "school_id", Value: 1}},
			Options: named("uniq_invitations_pending_email_school").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
	}
}

func dailyStatusIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: named("idx_daily_status_date")},
	}
}

func checklistIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "month", Value: 1}, {Key: "is_submitted", Value: 1}}, Options: named("idx_checklist_records_month_submitted")},
	}
}

func signatureRequestIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: named("idx_signature_requests_user")},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: named("idx_audit_ts")},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("idx_audit_actor_ts")},
		{Keys: bson.D{{Key: "school_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("idx_audit_school_ts")},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("idx_audit_category_type_ts")},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool {
	return p != nil && *p
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

type reconciler struct {
	log *zap.Logger
}

func (r reconciler) existing(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			r.log.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func (r reconciler) ensure(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		unique := false
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = boolOf(m.Options.Unique)
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
		}

		ex, found := r.existing(ctx, coll)[sig]
		switch {
		case found && boolOf(ex.Unique) == unique && (name == "" || ex.Name == name):
			r.log.Debug("reusing existing index", fields...)
			continue
		case found:
			// Options or name differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				r.log.Warn("drop existing index failed", append(fields, zap.String("existing", ex.Name), zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		_, err := coll.Indexes().CreateOne(ctx, m)
		if isOptionsConflictErr(err) {
			// Lost a race with another instance creating the same keys.
			if ex, ok := r.existing(ctx, coll)[sig]; ok && boolOf(ex.Unique) == unique {
				r.log.Info("reusing existing index (post-conflict)", fields...)
				continue
			}
		}
		if err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			r.log.Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		r.log.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
