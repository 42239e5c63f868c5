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
We aggregate errors so any problem is visible and startup can fail fast.
registrationColls names the per-program registration collections, which
all share one index set.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, registrationColls ...string) error {
	var problems []string

	if err := ensureAdmins(ctx, db); err != nil {
		problems = append(problems, "admins: "+err.Error())
	}
	if err := ensureContacts(ctx, db); err != nil {
		problems = append(problems, "contacts: "+err.Error())
	}
	if err := ensureManagedEvents(ctx, db); err != nil {
		problems = append(problems, "managedevents: "+err.Error())
	}
	if err := ensureFamilyEvents(ctx, db); err != nil {
		problems = append(problems, "familyevents: "+err.Error())
	}
	for _, name := range ProgramCollections {
		if err := ensurePrograms(ctx, db, name); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}
	for _, name := range registrationColls {
		if err := ensureRegistrations(ctx, db, name); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ProgramCollections are the catalog collections (Hypnotherapy, Decode,
// TASSO).
var ProgramCollections = []string{"hypnotherapyprograms", "decodeprograms", "tassos"}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type indexInfo struct {
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

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
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
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		unique := desiredUnique != nil && *desiredUnique

		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))
		log.Info("ensuring index")

		ex, found, err := existingIndex(ctx, coll, desiredSig)
		if err != nil {
			log.Warn("list indexes failed", zap.Error(err))
		}

		if found {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
				continue
			}
			// Same keys with another name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s failed: %v", coll.Name(), desiredName, ex.Name, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				errs = append(errs, createFailure(coll.Name(), desiredName, desiredSig, unique, err))
				continue
			}
			log.Info("index dropped and recreated",
				zap.String("replaced", ex.Name),
				zap.Duration("took", time.Since(start)))
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			log.Info("index ensured",
				zap.String("created_name", created),
				zap.Duration("took", time.Since(start)))
			continue
		}

		// A concurrent starter may have created the same keys between the
		// listing and CreateOne. Reuse it when the options agree.
		if isOptionsConflictErr(err) {
			if ex, ok, _ := existingIndex(ctx, coll, desiredSig); ok && sameBoolPtr(desiredUnique, ex.Unique) {
				log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
				continue
			}
		}
		log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
		errs = append(errs, createFailure(coll.Name(), desiredName, desiredSig, unique, err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// existingIndex finds the index on coll whose key signature is sig.
func existingIndex(ctx context.Context, coll *mongo.Collection, sig string) (indexInfo, bool, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return indexInfo{}, false, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx indexInfo
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		if keySig(idx.Key) == sig {
			return idx, true, nil
		}
	}
	return indexInfo{}, false, cur.Err()
}

func createFailure(coll, name, sig string, unique bool, err error) string {
	if !unique || !isDuplicateKeyErr(err) {
		return fmt.Sprintf("%s(%s): %v", coll, name, err)
	}
	helper := ""
	if coll == "admins" && strings.Contains(sig, "email:1") {
		helper = " (duplicates exist on admins.email). Example finder:\n" +
			`db.admins.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll, name, helper)
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureAdmins(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("admins")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Login looks admins up by (lowercased) email.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_admins_email"),
		},
	})
}

func ensureContacts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("contacts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Default list order, also serves the today/this-month counts
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_contacts_createdat_id"),
		},
		// Status filter + newest first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_contacts_status_createdat"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_contacts_email"),
		},
	})
}

func ensureManagedEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("managedevents")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public lists: open, not deleted, upcoming, soonest first
		{
			Keys: bson.D{
				{Key: "isDeleted", Value: 1},
				{Key: "status", Value: 1},
				{Key: "startDate", Value: 1},
			},
			Options: options.Index().SetName("idx_managedevents_deleted_status_start"),
		},
		// Admin list filtered by event type
		{
			Keys:    bson.D{{Key: "event", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_managedevents_event_createdat"),
		},
	})
}

func ensureFamilyEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("familyevents")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("idx_familyevents_status_end"),
		},
		{
			Keys:    bson.D{{Key: "startDate", Value: 1}},
			Options: options.Index().SetName("idx_familyevents_start"),
		},
	})
}

func ensurePrograms(ctx context.Context, db *mongo.Database, name string) error {
	c := db.Collection(name)
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_" + name + "_status_createdat"),
		},
	})
}

func ensureRegistrations(ctx context.Context, db *mongo.Database, name string) error {
	c := db.Collection(name)
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Default list order and createdAt range exports
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_" + name + "_createdat_id"),
		},
		// Duplicate check on the multi-training form; harmless elsewhere
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "phone", Value: 1}},
			Options: options.Index().SetName("idx_" + name + "_email_phone"),
		},
	})
}
