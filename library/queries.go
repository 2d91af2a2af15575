package library

import (
	"context"
	"fmt"
	"time"
)

var (
	allVideoColumns = `id, created_at,
		title, author, description, source_url,
		publish_date, thumbnail_url,
		length, size, resolution`
	queryVideoGet = fmt.Sprintf(`select %v from videos where id = $1 limit 1`, allVideoColumns)
	queryVideoAdd = `
		insert into videos (
			title, author, description, source_url,
			publish_date, thumbnail_url, length, size, resolution, created_at
		) values (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, datetime('now')
		)`
	// resolution is stored as a bare integer string, comparison must be
	// numeric ("1080" sorts below "480" lexicographically).
	queryVideoList = fmt.Sprintf(
		`select %s from videos
		where length >= $1 and CAST(resolution AS INTEGER) >= $2
		order by id limit $3 offset $4`, allVideoColumns)
	queryVideoTotalSize = `select coalesce(sum(size), 0) from videos`
)

type AddParams struct {
	Title        string
	Author       string
	Description  string
	SourceURL    string
	PublishDate  time.Time
	ThumbnailURL string
	Length       int64
	Size         int64
	Resolution   string
}

func (q *Queries) Add(ctx context.Context, arg AddParams) (*Video, error) {
	res, err := q.db.ExecContext(
		ctx, queryVideoAdd,
		arg.Title, arg.Author, arg.Description, arg.SourceURL,
		arg.PublishDate, arg.ThumbnailURL, arg.Length, arg.Size, arg.Resolution,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.Get(ctx, id)
}

func (q *Queries) Get(ctx context.Context, id int64) (*Video, error) {
	var (
		i   Video
		err error
	)

	row := q.db.QueryRowContext(ctx, queryVideoGet, id)
	if i, err = scan(row); err != nil {
		return nil, err
	}

	return &i, nil
}

type ListParams struct {
	MinLength     int64
	MinResolution int64
	Limit         int64
	Offset        int64
}

func (q *Queries) List(ctx context.Context, arg ListParams) ([]*Video, error) {
	var (
		err  error
		list []*Video
	)

	rows, err := q.db.QueryContext(ctx, queryVideoList,
		arg.MinLength, arg.MinResolution, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var i Video
		if i, err = scan(rows); err != nil {
			return nil, err
		}
		list = append(list, &i)
	}

	return list, nil
}

func (q *Queries) TotalSize(ctx context.Context) (int64, error) {
	var size int64
	err := q.db.QueryRowContext(ctx, queryVideoTotalSize).Scan(&size)
	return size, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scan(r rowScanner) (Video, error) {
	var i Video
	if err := r.Scan(
		&i.ID,
		&i.CreatedAt,
		&i.Title,
		&i.Author,
		&i.Description,
		&i.SourceURL,
		&i.PublishDate,
		&i.ThumbnailURL,
		&i.Length,
		&i.Size,
		&i.Resolution,
	); err != nil {
		return i, err
	}
	return i, nil
}
