package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/server"
	"github.com/matst80/slask-filters/pkg/storage"
	"github.com/matst80/slask-filters/pkg/suggest"
	"github.com/matst80/slask-filters/pkg/tracking"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var seedRedis = flag.Bool("seed", false, "store the candidates from disk in redis before starting")
var sessionMaxAge = flag.Duration("session-max-age", 2*time.Hour, "drop sessions idle for longer than this")

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

var (
	listenAddress = getEnv("LISTEN_ADDRESS", ":8080")
	debugAddress  = getEnv("DEBUG_ADDRESS", ":8081")
	dataDir       = getEnv("DATA_DIR", "data")
	dashboard     = getEnv("DASHBOARD", "default")
	redisUrl      = os.Getenv("REDIS_URL")
	redisPassword = os.Getenv("REDIS_PASSWORD")
	rabbitUrl     = os.Getenv("RABBIT_URL")
)

func loadSource(ctx context.Context, diskStorage *storage.DiskStorage) suggest.Source {
	candidates := map[string][]types.Candidate{}
	if err := diskStorage.LoadCandidates(&candidates); err != nil {
		log.Printf("Could not load candidates from disk: %v", err)
	}
	if redisUrl == "" {
		return suggest.NewStaticSource(candidates)
	}
	source := suggest.NewRedisSource(redisUrl, redisPassword, 0)
	if *seedRedis {
		for key, list := range candidates {
			if err := source.Store(ctx, key, list); err != nil {
				log.Printf("Failed to seed candidates for %s: %v", key, err)
			}
		}
		log.Printf("Seeded candidates for %d filters", len(candidates))
	}
	return source
}

func main() {
	flag.Parse()

	diskStorage := storage.NewDiskStorage(dashboard, dataDir)
	manifest := &filter.Manifest{}
	if err := diskStorage.LoadManifest(manifest); err != nil {
		log.Fatalf("Could not load dashboard manifest: %v", err)
	}

	source := loadSource(context.Background(), diskStorage)

	var trk tracking.Tracking = tracking.LogTracking{}
	if rabbitUrl != "" {
		rabbitTracking, err := tracking.NewRabbitTracking(rabbitUrl, dashboard, dashboard)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			trk = rabbitTracking
			defer rabbitTracking.Close()
		}
	}

	srv, err := server.NewServer(dashboard, manifest, source, trk)
	if err != nil {
		log.Fatalf("Invalid dashboard %s: %v", dashboard, err)
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if removed := srv.Sessions.Prune(*sessionMaxAge); removed > 0 {
				log.Printf("Pruned %d idle sessions", removed)
			}
		}
	}()

	debug := http.NewServeMux()
	debug.Handle("/metrics", promhttp.Handler())
	debug.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux := http.NewServeMux()
	srv.Handle(mux)

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	servers := []*http.Server{
		common.NewServerWithTimeouts(listenAddress, mux, timeouts),
		common.NewServerWithTimeouts(debugAddress, debug, timeouts),
	}

	common.RunServersWithShutdown(servers, "dashboard "+dashboard, timeouts.Shutdown, timeouts.Hook, func(ctx context.Context) error {
		log.Printf("Shutting down with %d active sessions", srv.Sessions.Len())
		return nil
	})

	// pending change events go out once no handler can add more
	srv.Close()
	if redisSource, ok := source.(*suggest.RedisSource); ok {
		if err := redisSource.Close(); err != nil {
			log.Printf("Failed to close redis: %v", err)
		}
	}
}
