package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"homework_bot/internal/config"
	"homework_bot/internal/storage"
)

func main() {
	dbPath := flag.String("db", config.JournalPath(), "path to the status journal database")
	limit := flag.Int("n", 20, "number of most recent changes to show")
	flag.Parse()

	store, err := storage.NewSQLite(*dbPath)
	if err != nil {
		log.Fatalf("open journal: %v", err)
	}
	defer func() { _ = store.Close() }()

	changes, err := store.ListChanges(context.Background(), *limit)
	if err != nil {
		log.Fatalf("list changes: %v", err)
	}
	if len(changes) == 0 {
		fmt.Println("No status changes recorded yet.")
		return
	}
	for _, c := range changes {
		fmt.Printf("%s  %-9s  %s\n", c.DetectedAt.Format("2006-01-02 15:04 UTC"), c.Status, c.LessonName)
	}
}
