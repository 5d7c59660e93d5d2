// services/record_service.go
package services

import (
	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/models"
	"github.com/wfunc/matchserver/persistence"
)

// RecordService writes finished-match archives and reads player tallies.
// With a nil database it degrades to a no-op so the core server runs
// without postgres.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// ArchiveMatch stores the record of a finished match. Failures are logged,
// never surfaced to the match path.
func (s *RecordService) ArchiveMatch(record *models.MatchRecord) {
	if s.db == nil || record == nil {
		return
	}
	if err := s.db.SaveMatchRecord(record); err != nil {
		logger.Log.Errorf("Failed to archive match %s: %v", record.MatchID, err)
	}
}

// PlayerRecord returns the win/loss/draw tally for a display name.
func (s *RecordService) PlayerRecord(name string) (*models.PlayerRecord, error) {
	if s.db == nil {
		return nil, persistence.ErrRecordNotFound
	}
	return s.db.GetPlayerRecord(name)
}
