package database

import (
	"context"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
)

const (
	draftTable   = "drafts"
	artworkTable = "artworks"
	pkIndex      = "id"
)

type draftRecord struct {
	ID        string
	Draft     *models.TripDraft
	ExpiresAt time.Time
}

type artworkRecord struct {
	ID        int
	Artwork   models.ArtworkResult
	ExpiresAt time.Time
}

func memorySchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			draftTable: {
				Name: draftTable,
				Indexes: map[string]*memdb.IndexSchema{
					pkIndex: {
						Name:    pkIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
			artworkTable: {
				Name: artworkTable,
				Indexes: map[string]*memdb.IndexSchema{
					pkIndex: {
						Name:    pkIndex,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}

// MemoryStore keeps drafts in process. Records are never mutated after
// insert; every write stores a fresh copy.
type MemoryStore struct {
	db  *memdb.MemDB
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) (*MemoryStore, error) {
	db, err := memdb.NewMemDB(memorySchema())
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to create memory store", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *MemoryStore) Drafts() DraftRepo          { return memoryDrafts{s} }
func (s *MemoryStore) Artworks() ArtworkCache     { return memoryArtworks{s} }
func (s *MemoryStore) Name() string               { return "memory" }
func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

func (s *MemoryStore) PurgeExpired(_ context.Context, before time.Time) (int, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	removed := 0
	for _, table := range []string{draftTable, artworkTable} {
		it, err := txn.Get(table, pkIndex)
		if err != nil {
			return 0, errs.NewDatabaseError("scan", table, err)
		}
		var expired []interface{}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			if expiresAt(obj).Before(before) {
				expired = append(expired, obj)
			}
		}
		for _, obj := range expired {
			if err := txn.Delete(table, obj); err != nil {
				return 0, errs.NewDatabaseError("purge", table, err)
			}
			removed++
		}
	}
	txn.Commit()
	return removed, nil
}

func expiresAt(obj interface{}) time.Time {
	switch rec := obj.(type) {
	case *draftRecord:
		return rec.ExpiresAt
	case *artworkRecord:
		return rec.ExpiresAt
	}
	return time.Time{}
}

type memoryDrafts struct {
	s *MemoryStore
}

func (r memoryDrafts) FindByID(_ context.Context, id string) (*models.TripDraft, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(draftTable, pkIndex, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "draft", err)
	}
	if obj == nil {
		return nil, errs.NewNotFound("draft")
	}
	rec := obj.(*draftRecord)
	if !rec.ExpiresAt.After(r.s.now()) {
		return nil, errs.NewNotFound("draft")
	}
	return copyDraft(rec.Draft), nil
}

func (r memoryDrafts) Save(_ context.Context, draft *models.TripDraft) error {
	if err := validateDraftID(draft.ID); err != nil {
		return err
	}
	now := r.s.now()
	draft.UpdatedAt = now

	txn := r.s.db.Txn(true)
	defer txn.Abort()
	rec := &draftRecord{ID: draft.ID, Draft: copyDraft(draft), ExpiresAt: now.Add(r.s.ttl)}
	if err := txn.Insert(draftTable, rec); err != nil {
		return errs.NewDatabaseError("save", "draft", err)
	}
	txn.Commit()
	return nil
}

func (r memoryDrafts) Delete(_ context.Context, id string) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(draftTable, pkIndex, id); err != nil {
		return errs.NewDatabaseError("delete", "draft", err)
	}
	txn.Commit()
	return nil
}

type memoryArtworks struct {
	s *MemoryStore
}

func (c memoryArtworks) Put(_ context.Context, artworks []models.ArtworkResult) error {
	if len(artworks) == 0 {
		return nil
	}
	expires := c.s.now().Add(c.s.ttl)

	txn := c.s.db.Txn(true)
	defer txn.Abort()
	for _, a := range artworks {
		if err := txn.Insert(artworkTable, &artworkRecord{ID: a.ID, Artwork: a, ExpiresAt: expires}); err != nil {
			return errs.NewDatabaseError("cache", "artwork", err)
		}
	}
	txn.Commit()
	return nil
}

func (c memoryArtworks) Get(_ context.Context, id int) (*models.ArtworkResult, error) {
	txn := c.s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(artworkTable, pkIndex, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "artwork", err)
	}
	if obj == nil {
		return nil, errs.NewNotFound("artwork")
	}
	rec := obj.(*artworkRecord)
	if !rec.ExpiresAt.After(c.s.now()) {
		return nil, errs.NewNotFound("artwork")
	}
	artwork := rec.Artwork
	return &artwork, nil
}
