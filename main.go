package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

var (
	cfg       Config
	jwtSecret []byte // derived from cfg.JWTSecret at startup
)

func main() {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	jwtSecret = []byte(cfg.JWTSecret)

	// Support a lightweight migrate command: `./personaforge migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	r := gin.Default()

	setupRoutes(r)

	r.Run(cfg.Addr)
}
