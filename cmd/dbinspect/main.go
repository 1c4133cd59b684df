// Package main provides a read-only inspection tool for the embedded Badger
// store: prints every user, shop, and menu entry so the database contents
// can be checked without going through the core components.
//
// Usage:
//
//	DB_PATH=~/.menu-rouletti/db go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/catability/menu-rouletti/internal/store"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.menu-rouletti/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	for _, collection := range []string{
		store.CollectionUsers,
		store.CollectionShops,
		store.CollectionMenuList,
	} {
		if err := dumpCollection(db, collection); err != nil {
			log.Fatalf("Failed to dump %s: %v", collection, err)
		}
	}
}

func dumpCollection(db *badger.DB, collection string) error {
	fmt.Printf("\n--- %s ---\n", collection)

	prefix := []byte(collection + ":")
	count := 0

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())
			docID := strings.TrimPrefix(key, collection+":")

			err := item.Value(func(val []byte) error {
				var doc map[string]any
				if err := json.Unmarshal(val, &doc); err != nil {
					fmt.Printf("%s: <unreadable: %v>\n", docID, err)
					return nil
				}
				pretty, err := json.Marshal(doc)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", docID, pretty)
				return nil
			})
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("(%d documents)\n", count)
	return nil
}
