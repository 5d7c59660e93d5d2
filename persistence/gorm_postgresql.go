// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/matchserver/models"
)

// GormPostgreSQL is the GORM-backed match archive.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormMatchRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (p *GormPostgreSQL) SaveMatchRecord(record *models.MatchRecord) error {
	row := models.GormMatchRecord{
		MatchID:  record.MatchID,
		XName:    record.XName,
		OName:    record.OName,
		Winner:   record.Winner,
		Moves:    record.Moves,
		Duration: record.Duration,
	}
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) GetPlayerRecord(name string) (*models.PlayerRecord, error) {
	record := models.PlayerRecord{Name: name}

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) AS games,
            COALESCE(SUM(CASE WHEN (x_name = @name AND winner = 1)
                       OR (o_name = @name AND winner = 2) THEN 1 ELSE 0 END), 0) AS wins,
            COALESCE(SUM(CASE WHEN (x_name = @name AND winner = 2)
                       OR (o_name = @name AND winner = 1) THEN 1 ELSE 0 END), 0) AS losses,
            COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0) AS draws
        FROM gorm_match_records
        WHERE x_name = @name OR o_name = @name`,
		map[string]interface{}{"name": name},
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}

	if record.Games == 0 {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
