// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/matchserver/models"
)

// Database archives finished matches and answers per-player tallies. Live
// match state is never stored; nothing here survives into a running match.
type Database interface {
	SaveMatchRecord(record *models.MatchRecord) error
	GetPlayerRecord(name string) (*models.PlayerRecord, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
