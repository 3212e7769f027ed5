/*
 * journal.go
 *
 * sqlite journal of machine transitions and serial traffic.
 */
package jukebox

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

var DefaultTables = map[string]string{

	// transitions: one row per fired rule, in firing order.
	"transitions": `CREATE TABLE IF NOT EXISTS 'transitions' (
id          INTEGER PRIMARY KEY,
time        DATETIME,
machine     TEXT NOT NULL DEFAULT '',
fromstate   TEXT NOT NULL DEFAULT '',
tostate     TEXT NOT NULL DEFAULT '',
description TEXT NOT NULL DEFAULT ''
)`,

	// messages: direction is "rx" for lines given to the device, "tx" for
	// lines it sent.
	"messages": `CREATE TABLE IF NOT EXISTS 'messages' (
id          INTEGER PRIMARY KEY,
time        DATETIME,
direction   TEXT NOT NULL DEFAULT '' CHECK (direction IN ('rx', 'tx')),
text        TEXT NOT NULL DEFAULT ''
)`,
}

const (
	InsertTransitionSQL = `
INSERT INTO transitions (time, machine, fromstate, tostate, description) VALUES (?, ?, ?, ?, ?)`
	InsertMessageSQL = `
INSERT INTO messages (time, direction, text) VALUES (?, ?, ?)`

	RecentTransitionsSQL = `
SELECT id, time, machine, fromstate, tostate, description
FROM transitions WHERE (? = '' OR machine = ?) ORDER BY id DESC LIMIT ?`
	RecentMessagesSQL = `
SELECT id, time, direction, text FROM messages ORDER BY id DESC LIMIT ?`
)

const DefaultJournalLimit = 20

type JournalDB struct {
	db      *sql.DB
	UpdateC chan JournalUpdate
}

func dbSetupTables(db *sql.DB) error {
	for t, s := range DefaultTables {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to set up table %s: %w", t, err)
		}
	}
	return nil
}

// NewJournalDB opens (or creates) the journal. With force the tables are
// dropped first.
func NewJournalDB(dbfile string, force bool) (*JournalDB, error) {
	log.Printf("NewJournalDB: using sqlite db in file %s\n", dbfile)

	if _, err := os.Stat(dbfile); !os.IsNotExist(err) {
		if err := os.Chmod(dbfile, 0664); err != nil {
			log.Printf("NewJournalDB: Error trying to ensure that db %s is writable: %v", dbfile, err)
		}
	}
	db, err := sql.Open("sqlite3", dbfile)
	if err != nil {
		return nil, fmt.Errorf("NewJournalDB: error from sql.Open: %w", err)
	}

	if force {
		for table := range DefaultTables {
			if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				log.Printf("NewJournalDB: Error when dropping table %s: %v", table, err)
			}
		}
	}
	if err := dbSetupTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("NewJournalDB: %w", err)
	}
	return &JournalDB{db: db}, nil
}

func (jdb *JournalDB) Prepare(sqlq string) (*sql.Stmt, error) {
	return jdb.db.Prepare(sqlq)
}

func (jdb *JournalDB) Begin() (*sql.Tx, error) {
	return jdb.db.Begin()
}

func (jdb *JournalDB) Close() error {
	return jdb.db.Close()
}

// Transitions returns the latest transitions, newest first. An empty
// machine matches all machines.
func (jdb *JournalDB) Transitions(limit int, machine string) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	rows, err := jdb.db.Query(RecentTransitionsSQL, machine, machine, limit)
	if CheckSQLError("Transitions", RecentTransitionsSQL, err, false) {
		return nil, err
	}
	defer rows.Close()

	var res []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Machine, &e.From, &e.To, &e.Description); err != nil {
			return nil, fmt.Errorf("Transitions: error from rows.Scan: %w", err)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (jdb *JournalDB) Messages(limit int) ([]MessageEntry, error) {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	rows, err := jdb.db.Query(RecentMessagesSQL, limit)
	if CheckSQLError("Messages", RecentMessagesSQL, err, false) {
		return nil, err
	}
	defer rows.Close()

	var res []MessageEntry
	for rows.Next() {
		var e MessageEntry
		if err := rows.Scan(&e.ID, &e.Time, &e.Direction, &e.Text); err != nil {
			return nil, fmt.Errorf("Messages: error from rows.Scan: %w", err)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func CheckSQLError(caller, sqlcmd string, err error, abort bool) bool {
	if err != nil {
		if abort {
			log.Fatalf("%s: Error from db.Exec: SQL: %s err: %v", caller, sqlcmd, err)
		} else {
			log.Printf("%s: Error from db.Exec: SQL: %s err: %v", caller, sqlcmd, err)
		}
	}
	return err != nil
}
