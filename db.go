package main

import (
	"log"

	"personaforge/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Persona{}); err != nil {
			log.Printf("migration warning (personas): %v", err)
		}
		if err := db.AutoMigrate(&models.FinancialTransaction{}); err != nil {
			log.Printf("migration warning (financial_transactions): %v", err)
		}
		if err := db.AutoMigrate(&models.ConversationMessage{}); err != nil {
			log.Printf("migration warning (conversation_messages): %v", err)
		}
		if err := db.AutoMigrate(&models.RevokedToken{}); err != nil {
			log.Printf("migration warning (revoked_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.PasswordReset{}); err != nil {
			log.Printf("migration warning (password_resets): %v", err)
		}
	}
	seedDB()
	PurgeExpiredRevocations()
}

// seedDB provisions the first superuser so a fresh install can be
// administered. It goes through the capped creation path like every other
// superuser.
func seedDB() {
	var count int64
	db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count)
	if count > 0 {
		return
	}
	if _, err := CreateSuperuser("admin@example.com", "admin123", UserAttrs{}); err != nil {
		log.Printf("failed to seed superuser: %v", err)
		return
	}
	log.Println("Seeded superuser: email=admin@example.com, password=admin123")
}
