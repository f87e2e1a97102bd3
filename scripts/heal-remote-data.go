package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// storedVersion reads only the schema marker of a record
type storedVersion struct {
	SchemaVersion int `json:"schemaVersion"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	write := len(os.Args) > 1 && os.Args[1] == "--write"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning character records for outdated or corrupt data...")

	iter := client.Scan(ctx, 0, "character:*", 0).Iterator()

	var corruptKeys, outdatedKeys []string
	var checkedCount, healedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		// owner index sets and change channels share the prefix
		if strings.HasPrefix(key, "character:owner:") || strings.HasPrefix(key, "character:changes:") {
			continue
		}
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var version storedVersion
		if err := json.Unmarshal(data, &version); err != nil {
			fmt.Printf("✗ Corrupt JSON in %s\n", key)
			corruptKeys = append(corruptKeys, key)
			continue
		}
		if version.SchemaVersion >= dnd5e.SchemaVersion {
			continue
		}

		fmt.Printf("• %s is schema v%d (current v%d)\n", key, version.SchemaVersion, dnd5e.SchemaVersion)
		outdatedKeys = append(outdatedKeys, key)
		if !write {
			continue
		}

		healed, err := dnd5e.Decode(data)
		if err != nil {
			fmt.Printf("✗ Cannot heal %s: %v\n", key, err)
			corruptKeys = append(corruptKeys, key)
			continue
		}
		encoded, err := json.Marshal(healed)
		if err != nil {
			fmt.Printf("✗ Cannot encode %s: %v\n", key, err)
			continue
		}
		if err := client.Set(ctx, key, encoded, 0).Err(); err != nil {
			fmt.Printf("Failed to write %s: %v\n", key, err)
			continue
		}
		healedCount++
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d records: %d outdated, %d healed, %d corrupt\n",
		checkedCount, len(outdatedKeys), healedCount, len(corruptKeys))

	if len(outdatedKeys) > 0 && !write {
		fmt.Println("Run again with --write to rewrite outdated records in the current schema.")
	}

	if len(corruptKeys) > 0 {
		fmt.Println("\nCorrupt keys (left untouched, readers skip them):")
		for _, key := range corruptKeys {
			fmt.Printf("  - %s\n", key)
		}
	}
}
