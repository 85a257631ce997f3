package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/The-Dudeski/contactd/internal/filters"
	srv "github.com/The-Dudeski/contactd/internal/server"
	"github.com/The-Dudeski/contactd/internal/store"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	addr := getenv("CONTACTD_ADDR", ":8080")
	driver := getenv("CONTACTD_DB_DRIVER", "sqlite")
	dsn := getenv("CONTACTD_DB_DSN", "contactd.db")
	// Optional saved-filters path
	filtersPath := os.Getenv("CONTACTD_FILTERS_PATH")
	if filtersPath == "" {
		if st, err := os.Stat("./filters"); err == nil && st.IsDir() {
			filtersPath = "./filters"
		}
	}

	var cs srv.ContactStore
	switch driver {
	case "memory":
		cs = store.NewMemory()
	default:
		st, err := store.Open(driver, dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		if err := st.InitSchema(); err != nil {
			log.Fatalf("init schema: %v", err)
		}
		cs = st
	}

	server := srv.NewAppServer(cs)

	if filtersPath != "" {
		if set, skipped, err := filters.LoadDir(filtersPath); err != nil {
			log.Printf("failed to load filters from %s: %v", filtersPath, err)
		} else {
			server.SwapFilters(set)
			log.Printf("loaded filters from %s: loaded=%d skipped=%d", filtersPath, set.Len(), skipped)
		}
		if getenv("CONTACTD_WATCH_FILTERS", "") == "1" {
			go func() {
				if err := filters.Watch(context.Background(), filtersPath, server.SwapFilters); err != nil {
					log.Printf("filters watcher stopped: %v", err)
				}
			}()
		}
	}

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	log.Printf("contactd listening on %s (db=%s)", addr, driver)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
