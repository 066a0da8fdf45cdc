package repositories

import (
	"chatbot/contract"
	"chatbot/domain"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.SessionStore = (*BadgerSessionStore)(nil)

// BadgerSessionStore keeps session records in BadgerDB.
// Keys are formatted as "auth:{collection}:{filename}" so a collection is a
// prefix scan and dropping it is a prefix drop.
type BadgerSessionStore struct {
	db  *badger.DB
	log *slog.Logger
}

// NewBadgerSessionStore takes ownership of db; Close closes it.
func NewBadgerSessionStore(db *badger.DB, log *slog.Logger) *BadgerSessionStore {
	return &BadgerSessionStore{db: db, log: log}
}

// SessionKeyPrefix starts every session record key.
const SessionKeyPrefix = "auth:"

func collectionPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s%s:", SessionKeyPrefix, collection))
}

// ParseSessionKey splits a record key into its collection and filename.
func ParseSessionKey(key []byte) (collection, filename string, ok bool) {
	rest, found := strings.CutPrefix(string(key), SessionKeyPrefix)
	if !found {
		return "", "", false
	}
	collection, filename, ok = strings.Cut(rest, ":")
	if !ok || collection == "" || filename == "" {
		return "", "", false
	}
	return collection, filename, true
}

func (s *BadgerSessionStore) Drop(_ context.Context, collection string) error {
	return s.db.DropPrefix(collectionPrefix(collection))
}

func (s *BadgerSessionStore) InsertMany(_ context.Context, collection string, records []domain.SessionRecord) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	prefix := collectionPrefix(collection)
	for _, record := range records {
		key := append(append([]byte{}, prefix...), record.Filename...)
		if err := wb.Set(key, []byte(record.ContentBase64)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Find returns every record of the collection, sorted by filename.
func (s *BadgerSessionStore) Find(_ context.Context, collection string) ([]domain.SessionRecord, error) {
	var records []domain.SessionRecord
	prefix := collectionPrefix(collection)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			filename := string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				records = append(records, domain.SessionRecord{Filename: filename, ContentBase64: string(value)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug(fmt.Sprintf("%d session records found in %s", len(records), collection))
	return records, nil
}

func (s *BadgerSessionStore) Close(_ context.Context) error {
	return s.db.Close()
}
