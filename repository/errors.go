package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrDuplicateEntry signals a uniqueness violation (username, email
	// or track filename).
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrTrackNotInPlaylist signals a membership removal for a track
	// that is not in the playlist.
	ErrTrackNotInPlaylist = errors.New("track not in playlist")
)

// mysqlDuplicateKey is the MySQL error number for ER_DUP_ENTRY.
const mysqlDuplicateKey = 1062

// isDuplicateErr reports whether err is a MySQL duplicate-key error.
func isDuplicateErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateKey
}
