package services

import (
	"log"
	"time"

	"skillup/database"
	"skillup/models"
)

// CleanupService handles background cleanup tasks
type CleanupService struct {
	interval time.Duration
	maxAge   time.Duration
	stop     chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service.
func InitCleanupService() {
	cleanupService = &CleanupService{
		interval: 6 * time.Hour,
		maxAge:   30 * 24 * time.Hour,
		stop:     make(chan struct{}),
	}
	cleanupService.Start()
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start launches the background cleanup worker.
func (s *CleanupService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupEmptyChatSessions(); err != nil {
					log.Printf("chat session cleanup failed: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop stops the cleanup worker.
func (s *CleanupService) Stop() {
	close(s.stop)
}

// CleanupEmptyChatSessions removes old chat sessions that never received a message.
func (s *CleanupService) CleanupEmptyChatSessions() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	cutoff := time.Now().Add(-s.maxAge)
	res := db.Where("updated_at < ? AND id NOT IN (SELECT DISTINCT session_id FROM chat_messages)", cutoff).
		Delete(&models.ChatSession{})
	if res.Error != nil {
		log.Printf("Error deleting empty chat sessions: %v", res.Error)
		return res.Error
	}

	if res.RowsAffected > 0 {
		log.Printf("✅ Cleaned up %d empty chat sessions", res.RowsAffected)
	}
	return nil
}
