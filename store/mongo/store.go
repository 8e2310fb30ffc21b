// Package mongo implements the coin store on MongoDB through grove.
//
// Commit runs in a multi-document transaction, so the server must be a
// replica set or sharded cluster.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/coin"
	"github.com/xraph/coin/account"
	"github.com/xraph/coin/authority"
	"github.com/xraph/coin/journal"
	coinstore "github.com/xraph/coin/store"
	"github.com/xraph/coin/types"
)

// Collection name constants.
const (
	colAuthority   = "coin_authority"
	colAccounts    = "coin_accounts"
	colTransitions = "coin_transitions"
)

// compile-time interface check
var _ coinstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all coin collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("coin/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Authority Store ====================

func (s *Store) GetAuthority(ctx context.Context) (*authority.State, error) {
	var m authorityModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": authorityDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, coin.ErrNotInitialized
		}
		return nil, fmt.Errorf("coin/mongo: get authority: %w", err)
	}
	return fromAuthorityModel(&m)
}

func (s *Store) InitAuthority(ctx context.Context, st *authority.State) error {
	m := toAuthorityModel(st)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return coin.ErrAlreadyInitialized
		}
		return fmt.Errorf("coin/mongo: init authority: %w", err)
	}
	return nil
}

// ==================== Account Store ====================

func (s *Store) GetBalance(ctx context.Context, accountID types.AccountID) (types.Balance, error) {
	a, err := s.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, coin.ErrNotFound) {
			return types.Zero, nil
		}
		return types.Zero, err
	}
	return a.Balance, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID types.AccountID) (*account.Account, error) {
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": accountID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, coin.ErrNotFound
		}
		return nil, fmt.Errorf("coin/mongo: get account: %w", err)
	}
	return fromAccountModel(&m)
}

func (s *Store) ListAccounts(ctx context.Context, opts account.ListOpts) ([]*account.Account, error) {
	var models []accountModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/mongo: list accounts: %w", err)
	}

	result := make([]*account.Account, len(models))
	for i := range models {
		a, err := fromAccountModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = a
	}
	return result, nil
}

func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	n, err := s.mdb.Collection(colAccounts).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("coin/mongo: count accounts: %w", err)
	}
	return n, nil
}

// ==================== Journal Store ====================

// Commit applies the transition inside a driver session transaction. The
// authority update is guarded on the previous sequence number; when it
// matches nothing the transaction aborts with ErrConflict.
func (s *Store) Commit(ctx context.Context, t *journal.Transition) error {
	authColl := s.mdb.Collection(colAuthority)
	accColl := s.mdb.Collection(colAccounts)
	txColl := s.mdb.Collection(colTransitions)

	sess, err := authColl.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("coin/mongo: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		res, err := authColl.UpdateOne(ctx,
			bson.M{"_id": authorityDocID, "seq": int64(t.Seq - 1)},
			bson.M{"$set": bson.M{
				"issuance":   t.Issuance.String(),
				"seq":        int64(t.Seq),
				"updated_at": t.CommittedAt,
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, coin.ErrConflict
		}

		if t.Killed {
			if _, err := accColl.DeleteOne(ctx, bson.M{"_id": t.Account.String()}); err != nil {
				return nil, err
			}
		} else {
			_, err := accColl.UpdateOne(ctx,
				bson.M{"_id": t.Account.String()},
				bson.M{
					"$set": bson.M{
						"balance":    t.Balance.String(),
						"updated_at": t.CommittedAt,
					},
					"$setOnInsert": bson.M{"created_at": t.CommittedAt},
				},
				options.UpdateOne().SetUpsert(true),
			)
			if err != nil {
				return nil, err
			}
		}

		if _, err := txColl.InsertOne(ctx, toTransitionModel(t)); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, coin.ErrConflict) {
			return coin.ErrConflict
		}
		return fmt.Errorf("coin/mongo: commit transition: %w", err)
	}
	return nil
}

func (s *Store) ListTransitions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transition, error) {
	var models []transitionModel

	filter := bson.M{}
	if !opts.Account.IsEmpty() {
		filter["account_id"] = opts.Account.String()
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "committed_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("coin/mongo: list transitions: %w", err)
	}

	result := make([]*journal.Transition, len(models))
	for i := range models {
		t, err := fromTransitionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all coin collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colTransitions: {
			{Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "committed_at", Value: -1}}},
			{Keys: bson.D{{Key: "committed_at", Value: -1}}},
			{Keys: bson.D{{Key: "seq", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colAccounts: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
	}
}
