package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

func Open(dbUrl string) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", dbUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dbUrl)
	}

	// a single writer avoids SQLITE_BUSY on concurrent inserts
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setting journal mode")
	}

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrating")
	}

	return db, nil
}
