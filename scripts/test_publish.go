//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	streamMetaChanged = "stream:content:meta"
	streamSyncDone    = "stream:content:synced"
)

type metaChangedEvent struct {
	ItemID int64  `json:"item_id"`
	Field  string `json:"field"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	itemID := flag.Int64("item", 1, "Content item ID")
	field := flag.String("field", "location", "Metadata field name")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Запоминаем хвост стрима результатов до публикации
	lastID := "$"
	if msgs, err := client.XRevRangeN(ctx, streamSyncDone, "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	event := metaChangedEvent{ItemID: *itemID, Field: *field}
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamMetaChanged,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", streamMetaChanged)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Item: %d, field: %s\n", event.ItemID, event.Field)

	fmt.Printf("\nWaiting for response in %s...\n", streamSyncDone)

	if lastID == "$" {
		lastID = "0"
	}
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{streamSyncDone, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}

				if id, ok := response["item_id"].(float64); ok && int64(id) == event.ItemID {
					fmt.Printf("\nResponse received\n")
					prettyJSON, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("%s\n", prettyJSON)
					return
				}
			}
		}
	}

	fmt.Println("Timeout waiting for response (no-op outcomes are not published)")
}
