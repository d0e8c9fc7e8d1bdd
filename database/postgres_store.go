package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// draftRow stores the whole draft as a JSON document.
type draftRow struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time      `gorm:"index;not null"`
	UpdatedAt time.Time
}

func (draftRow) TableName() string {
	return "trip_drafts"
}

type artworkRow struct {
	ID        int            `gorm:"primaryKey;autoIncrement:false"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time      `gorm:"index;not null"`
}

func (artworkRow) TableName() string {
	return "artwork_cache"
}

type PostgresStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgresStore(db *gorm.DB, ttl time.Duration) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

// Migrate creates the draft and artwork cache tables.
func (s *PostgresStore) Migrate() error {
	if err := s.db.AutoMigrate(&draftRow{}, &artworkRow{}); err != nil {
		return errs.NewDatabaseError("migrate", "draft tables", err)
	}
	return nil
}

func (s *PostgresStore) Drafts() DraftRepo      { return postgresDrafts{s} }
func (s *PostgresStore) Artworks() ArtworkCache { return postgresArtworks{s} }
func (s *PostgresStore) Name() string           { return "postgres" }

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.NewDatabaseError("ping", "postgres", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewDatabaseError("ping", "postgres", err)
	}
	return nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	drafts := s.db.WithContext(ctx).Where("expires_at <= ?", before).Delete(&draftRow{})
	if drafts.Error != nil {
		return 0, errs.NewDatabaseError("purge", "drafts", drafts.Error)
	}
	artworks := s.db.WithContext(ctx).Where("expires_at <= ?", before).Delete(&artworkRow{})
	if artworks.Error != nil {
		return 0, errs.NewDatabaseError("purge", "artworks", artworks.Error)
	}
	return int(drafts.RowsAffected + artworks.RowsAffected), nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type postgresDrafts struct {
	s *PostgresStore
}

func (r postgresDrafts) FindByID(ctx context.Context, id string) (*models.TripDraft, error) {
	var row draftRow
	err := r.s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, r.s.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("draft")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "draft", err)
	}

	var draft models.TripDraft
	if err := json.Unmarshal(row.Data, &draft); err != nil {
		return nil, errs.NewJSONUnmarshalError("find draft", err)
	}
	if draft.Artworks == nil {
		draft.Artworks = []models.ArtworkResult{}
	}
	return &draft, nil
}

func (r postgresDrafts) Save(ctx context.Context, draft *models.TripDraft) error {
	if err := validateDraftID(draft.ID); err != nil {
		return err
	}
	now := r.s.now()
	draft.UpdatedAt = now

	data, err := json.Marshal(draft)
	if err != nil {
		return errs.NewJSONMarshalError("save draft", err)
	}
	row := draftRow{ID: draft.ID, Data: datatypes.JSON(data), ExpiresAt: now.Add(r.s.ttl), UpdatedAt: now}
	err = r.s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return errs.NewDatabaseError("save", "draft", err)
	}
	return nil
}

func (r postgresDrafts) Delete(ctx context.Context, id string) error {
	if err := r.s.db.WithContext(ctx).Where("id = ?", id).Delete(&draftRow{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "draft", err)
	}
	return nil
}

type postgresArtworks struct {
	s *PostgresStore
}

func (c postgresArtworks) Put(ctx context.Context, artworks []models.ArtworkResult) error {
	if len(artworks) == 0 {
		return nil
	}
	expires := c.s.now().Add(c.s.ttl)

	rows := make([]artworkRow, 0, len(artworks))
	seen := make(map[int]bool, len(artworks))
	for _, a := range artworks {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		data, err := json.Marshal(a)
		if err != nil {
			return errs.NewJSONMarshalError("cache artwork", err)
		}
		rows = append(rows, artworkRow{ID: a.ID, Data: datatypes.JSON(data), ExpiresAt: expires})
	}

	err := c.s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
	if err != nil {
		return errs.NewDatabaseError("cache", "artwork", err)
	}
	return nil
}

func (c postgresArtworks) Get(ctx context.Context, id int) (*models.ArtworkResult, error) {
	var row artworkRow
	err := c.s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", id, c.s.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("artwork")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "artwork", err)
	}

	var artwork models.ArtworkResult
	if err := json.Unmarshal(row.Data, &artwork); err != nil {
		return nil, errs.NewJSONUnmarshalError("find artwork", err)
	}
	return &artwork, nil
}
