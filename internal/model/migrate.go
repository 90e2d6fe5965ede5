package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the users/chats/messages tables and the case-insensitive
// email index that backs signup conflict detection.
func Migrate(db *gorm.DB) error {
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup sql: %w", err)
		}
	}

	if err := db.AutoMigrate(&User{}, &Chat{}, &Message{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	postSQL := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email));`,
		`ALTER TABLE messages DROP CONSTRAINT IF EXISTS chk_messages_role;`,
		`ALTER TABLE messages ADD CONSTRAINT chk_messages_role CHECK (role IN ('user', 'assistant'));`,
	}
	for _, sql := range postSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post-migration sql: %w", err)
		}
	}
	return nil
}
