/*
 * dbupdater.go
 *
 * Single writer for the journal. Entries are queued and written in order;
 * a locked database leaves the queue in place for the next round.
 */
package main

import (
	"errors"
	"log"
	"time"

	"github.com/mattn/go-sqlite3"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

func isLocked(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrLocked || serr.Code == sqlite3.ErrBusy
	}
	return false
}

func dbUpdater(conf *Config, stopch chan struct{}) {
	log.Printf("dbUpdater: Starting DB Update Service.")

	jdb := conf.Internal.JournalDB
	updateC := conf.Internal.UpdateC

	tstmt, err := jdb.Prepare(jukebox.InsertTransitionSQL)
	if err != nil {
		log.Fatalf("dbUpdater: Error from db.Prepare(%s): %v\n", jukebox.InsertTransitionSQL, err)
	}
	mstmt, err := jdb.Prepare(jukebox.InsertMessageSQL)
	if err != nil {
		log.Fatalf("dbUpdater: Error from db.Prepare(%s): %v\n", jukebox.InsertMessageSQL, err)
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	queue := []jukebox.JournalUpdate{}

	RunDBQueue := func() {
		for len(queue) > 0 {
			u := queue[0]

			tx, err := jdb.Begin()
			if err != nil {
				log.Printf("RunDBQueue: Error from jdb.Begin(): %v", err)
				return
			}

			switch u.Type {
			case jukebox.JournalTransition:
				_, err = tx.Stmt(tstmt).Exec(u.Time, u.Machine, u.From, u.To, u.Description)
			case jukebox.JournalMessage:
				_, err = tx.Stmt(mstmt).Exec(u.Time, u.Direction, u.Text)
			default:
				log.Printf("RunDBQueue: unknown update type %q, dropped", u.Type)
			}
			if err != nil {
				tx.Rollback()
				if isLocked(err) {
					log.Printf("RunDBQueue: INSERT db locked. will try again. queue: %d", len(queue))
					return
				}
				log.Printf("RunDBQueue: INSERT Error: %v", err)
				queue = queue[1:]
				continue
			}

			if err := tx.Commit(); err != nil {
				log.Printf("dbUpdater: RunQueue: Error from tx.Commit: %v", err)
				return
			}
			queue = queue[1:] // only drop item after successful commit
		}
	}

	for {
		select {
		case u := <-updateC:
			queue = append(queue, u)
			RunDBQueue()

		case <-ticker.C:
			RunDBQueue()

		case <-stopch:
			RunDBQueue()
			log.Println("dbUpdater: stop signal received.")
			return
		}
	}
}
