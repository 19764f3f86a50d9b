package migrations

import (
	"gorm.io/gorm"
)

// Migration001Initial creates the core tables.
type Migration001Initial struct{}

func (m *Migration001Initial) Version() string {
	return "001_initial"
}

func (m *Migration001Initial) Description() string {
	return "Create usage log and domain event tables"
}

func (m *Migration001Initial) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			token VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL,
			wear_type VARCHAR(16) NOT NULL,
			lens_usage_days INTEGER NOT NULL DEFAULT 0,
			last_lens_replacement_date VARCHAR(10),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	// The unique pair index is what makes upserts idempotent per day.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_usage_logs_token_date ON usage_logs(token, date)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_usage_logs_token ON usage_logs(token)`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_type VARCHAR(255) NOT NULL,
			token VARCHAR(255),
			data JSON NOT NULL,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_domain_events_event_type ON domain_events(event_type)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_domain_events_token ON domain_events(token)`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_domain_events_created_at ON domain_events(created_at)`).Error; err != nil {
		return err
	}

	return nil
}

func (m *Migration001Initial) Down(db *gorm.DB) error {
	if err := db.Exec(`DROP TABLE IF EXISTS domain_events`).Error; err != nil {
		return err
	}
	if err := db.Exec(`DROP TABLE IF EXISTS usage_logs`).Error; err != nil {
		return err
	}

	return nil
}
