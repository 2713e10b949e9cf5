package main

import (
	"log"

	"clearwater/internal/app/bootstrap"
)

// Schema migration entrypoint. Run once before starting api or worker
// against a fresh database.
func main() {
	log.Println("clearwater migrate starting")
	if err := bootstrap.Migrate(); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	log.Println("clearwater migrate done")
}
