package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"personaforge/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Standalone provisioning tool: creates a privileged account through the
// same capped count-then-insert the server uses, so at most two superusers
// can ever exist no matter which path created them.

const maxSuperusers = 2

const superuserLockKey int64 = 0x70657273757065

var errSuperuserLimit = errors.New("cannot create more than 2 superusers")

func main() {
	email := flag.String("email", "", "email for the new superuser")
	password := flag.String("password", "", "plaintext password (min 6 chars)")
	flag.Parse()
	if *email == "" || *password == "" {
		fmt.Println("usage: go run ./cmd/createsuperuser --email <email> --password <password>")
		os.Exit(2)
	}
	if len(*password) < 6 {
		log.Fatal("password too short (min 6)")
	}
	loadDotEnv()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	addr := strings.ToLower(strings.TrimSpace(*email))
	var existing models.User
	if err := db.Where("email = ?", addr).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", addr, existing.ID)
		os.Exit(0)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Email: addr, HashedPassword: hashed, IsActive: true, IsStaff: true, IsSuperuser: true}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", superuserLockKey).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
			return err
		}
		if count >= maxSuperusers {
			return errSuperuserLimit
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}
	fmt.Printf("created superuser %s id=%d\n", addr, user.ID)
}

// Minimal .env loader (non-destructive)
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq > 0 {
			k := strings.TrimSpace(line[:eq])
			v := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}
}
