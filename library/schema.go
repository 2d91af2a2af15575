package library

var InitialMigration = `
-- +migrate Up

-- +migrate StatementBegin
CREATE TABLE IF NOT EXISTS videos (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,

    "created_at" TIMESTAMP NOT NULL,

    "title" TEXT NOT NULL,
    "author" TEXT NOT NULL,
    "description" TEXT NOT NULL,
    "source_url" TEXT NOT NULL,

    "publish_date" TIMESTAMP NOT NULL,
    "thumbnail_url" TEXT NOT NULL,

    "length" INTEGER NOT NULL DEFAULT 0,
    "size" INTEGER NOT NULL DEFAULT 0,
    "resolution" TEXT NOT NULL
);
-- +migrate StatementEnd

-- +migrate Down

-- +migrate StatementBegin
DROP TABLE videos;
-- +migrate StatementEnd
`
