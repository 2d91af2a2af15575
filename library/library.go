package library

import (
	"context"

	"github.com/ytvault/ytvault/db"
)

// Library contains methods for accessing the videos database.
type Library struct {
	queries *Queries
}

func NewLibrary(db *db.DB) *Library {
	return &Library{queries: New(db)}
}

// Add records data about a downloaded video into the database.
func (lib *Library) Add(params AddParams) (*Video, error) {
	v, err := lib.queries.Add(context.Background(), params)
	if err != nil {
		return nil, err
	}
	logger.Infow("video recorded", "id", v.ID, "title", v.Title, "size", v.SizeString())
	return v, nil
}

func (lib *Library) Get(id int64) (*Video, error) {
	return lib.queries.Get(context.Background(), id)
}

// List returns one page of records with at least minLength seconds of
// playback and at least minResolution vertical pixels. Pages are
// 1-indexed, anything below 1 is treated as the first page. Pages past
// the end come back empty.
func (lib *Library) List(minLength, minResolution int64, page, pageSize int64) ([]*Video, error) {
	if page < 1 {
		page = 1
	}
	return lib.queries.List(context.Background(), ListParams{
		MinLength:     minLength,
		MinResolution: minResolution,
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	})
}

// TotalSize reports the recorded size of all downloads in bytes.
func (lib *Library) TotalSize() (int64, error) {
	return lib.queries.TotalSize(context.Background())
}
