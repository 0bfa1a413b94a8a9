// Admin CLI for the VoxPop backend: reputation adjustments, badge grants
// and revocations, and the hard deletes the HTTP API does not cascade.
package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/reputation"
	"voxpop/backend/internal/storage"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // no redis needed for admin commands
	badges := badge.NewRegistry(store)
	rep := reputation.NewLedger(store)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "reputation-increase":
		requireArgs(3, "admin reputation-increase <business_id>")
		score, err := rep.Update(os.Args[2], 1)
		if err != nil {
			log.Fatalf("error increasing reputation: %v", err)
		}
		fmt.Printf("Reputation of %s is now %d.\n", os.Args[2], score)
	case "reputation-decrease":
		requireArgs(3, "admin reputation-decrease <business_id>")
		score, err := rep.Update(os.Args[2], -1)
		if err != nil {
			log.Fatalf("error decreasing reputation: %v", err)
		}
		fmt.Printf("Reputation of %s is now %d.\n", os.Args[2], score)
	case "badge-add":
		requireArgs(4, "admin badge-add <business_id> <badge_name>")
		if err := badges.Add(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("error adding badge: %v", err)
		}
		fmt.Printf("Badge %q added to %s.\n", os.Args[3], os.Args[2])
	case "badge-remove":
		requireArgs(4, "admin badge-remove <business_id> <badge_name>")
		if err := badges.Remove(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("error removing badge: %v", err)
		}
		fmt.Printf("Badge %q removed from %s.\n", os.Args[3], os.Args[2])
	case "delete-petition":
		requireArgs(3, "admin delete-petition <petition_id>")
		if err := store.DeletePetition(os.Args[2]); err != nil {
			log.Fatalf("error deleting petition: %v", err)
		}
		fmt.Printf("Petition %s deleted. Signatures and responses are not cascaded.\n", os.Args[2])
	case "delete-response":
		requireArgs(3, "admin delete-response <response_id>")
		if err := store.DeleteResponse(os.Args[2]); err != nil {
			log.Fatalf("error deleting response: %v", err)
		}
		fmt.Printf("Response %s deleted. Feedback records are not cascaded.\n", os.Args[2])
	default:
		usage()
	}
}

func requireArgs(n int, u string) {
	if len(os.Args) != n {
		fmt.Printf("Usage: %s\n", u)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: admin <command> [args]")
	fmt.Println("Commands: reputation-increase, reputation-decrease, badge-add, badge-remove, delete-petition, delete-response")
	os.Exit(1)
}
