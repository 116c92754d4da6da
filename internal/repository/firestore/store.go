// Package firestore implements the RecordStore on Cloud Firestore through the Firebase
// Admin SDK. Batches run inside a Firestore transaction so uniqueness reads and the writes
// that depend on them commit together.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

var _ repository.RecordStore = (*Store)(nil)

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Open initializes a Firebase app for projectID and returns a store on its Firestore client.
// An empty credentialsFile falls back to application default credentials.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore client: %w", err)
	}
	return NewStore(client), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) NewID(collection string) string {
	return s.client.Collection(collection).NewDoc().ID
}

func (s *Store) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	logger.StoreCall("get", collection, "id", id)
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		err = translate(err)
		logger.StoreResult("get", collection, 0, err)
		return nil, err
	}
	return &repository.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		if !repository.ValidOp(f.Op) {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		q = q.Where(f.Field, f.Op, f.Value)
	}

	logger.StoreCall("query", collection, "filters", len(filters))
	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []repository.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			err = translate(err)
			logger.StoreResult("query", collection, int64(len(docs)), err)
			return nil, err
		}
		docs = append(docs, repository.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	logger.StoreResult("query", collection, int64(len(docs)), nil)
	return docs, nil
}

// CommitBatch applies ops in one transaction. Firestore requires every transactional read
// to precede the writes, so uniqueness checks run first.
func (s *Store) CommitBatch(ctx context.Context, ops []repository.BatchOp) error {
	if err := repository.ValidateBatch(ops); err != nil {
		return err
	}
	if err := checkBatchUnique(ops); err != nil {
		return err
	}

	logger.StoreCall("commit_batch", "transaction", "ops", len(ops))
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i, op := range ops {
			if op.UniqueField == "" {
				continue
			}
			q := s.client.Collection(op.Collection).Where(op.UniqueField, "==", op.Data[op.UniqueField])
			snaps, err := tx.Documents(q).GetAll()
			if err != nil {
				return err
			}
			for _, snap := range snaps {
				if snap.Ref.ID != op.ID {
					return fmt.Errorf("op %d: %s already held by %s: %w", i, op.UniqueField, snap.Ref.ID, repository.ErrUniqueViolation)
				}
			}
		}

		for _, op := range ops {
			ref := s.client.Collection(op.Collection).Doc(op.ID)
			var err error
			switch op.Kind {
			case repository.OpSet:
				err = tx.Set(ref, op.Data)
			case repository.OpCreate:
				err = tx.Create(ref, op.Data)
			case repository.OpUpdate:
				updates := make([]firestore.Update, 0, len(op.Data))
				for k, v := range op.Data {
					updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
				}
				err = tx.Update(ref, updates)
			case repository.OpDelete:
				if op.RequireExists {
					err = tx.Delete(ref, firestore.Exists)
				} else {
					err = tx.Delete(ref)
				}
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		err = translate(err)
	}
	logger.StoreResult("commit_batch", "transaction", int64(len(ops)), err)
	return err
}

// checkBatchUnique rejects two unique writes in one batch that carry the same value; the
// transactional query cannot see the batch's own pending writes.
func checkBatchUnique(ops []repository.BatchOp) error {
	seen := make(map[string]string)
	for i, op := range ops {
		if op.UniqueField == "" {
			continue
		}
		key := fmt.Sprintf("%s|%s|%v", op.Collection, op.UniqueField, op.Data[op.UniqueField])
		if holder, ok := seen[key]; ok && holder != op.ID {
			return fmt.Errorf("op %d: %s duplicated within batch: %w", i, op.UniqueField, repository.ErrUniqueViolation)
		}
		seen[key] = op.ID
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrUniqueViolation) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", repository.ErrAlreadyExists, err)
	case codes.FailedPrecondition:
		return fmt.Errorf("precondition failed: %w", err)
	}
	return err
}
