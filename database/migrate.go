// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"skillup/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("All migrations completed successfully")
}

// Migrate applies the schema for every application model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginEvent{},
		&models.UserProfile{},
		&models.Goal{},
		&models.Task{},
		&models.Note{},
		&models.Achievement{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
}

// createIndexes creates indexes AutoMigrate does not cover
func createIndexes(db *gorm.DB) {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals(user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_due ON tasks(user_id, due_date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notes_user_created ON notes(user_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_sessions_user_updated ON chat_sessions(user_id, updated_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_session_created ON chat_messages(session_id, created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_login_events_user_created ON login_events(user_id, created_at DESC)")
}
