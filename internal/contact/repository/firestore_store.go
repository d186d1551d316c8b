package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/nexora-labs/website-backend/internal/contact/domain"
)

// FirestoreStore persists submissions as Firestore documents, one
// collection per domain collection name.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

var (
	_ domain.SubmissionStore   = (*FirestoreStore)(nil)
	_ domain.SubmissionCounter = (*FirestoreStore)(nil)
)

// InsertOne adds doc under an auto-generated document id.
func (s *FirestoreStore) InsertOne(ctx context.Context, collection string, doc *domain.ContactSubmission) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) CountSince(ctx context.Context, collection string, since time.Time) (int, error) {
	return count(s.client.Collection(collection).Where("submittedAt", ">=", since).Documents(ctx))
}

func (s *FirestoreStore) CountUnread(ctx context.Context, collection string) (int, error) {
	return count(s.client.Collection(collection).Where("read", "==", false).Documents(ctx))
}

// Ping reads at most one document to confirm the backend is reachable.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	it := s.client.Collection(domain.CollectionContactSubmissions).Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func count(it *firestore.DocumentIterator) (int, error) {
	defer it.Stop()
	n := 0
	for {
		_, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("firestore query: %w", err)
		}
		n++
	}
}
