package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	. "StarConquest/internal/game"
)

type AppConfig struct {
	WorldConfigPath string
	MatchOverrides  MatchOverrides
	ParamOverrides  ParamOverrides
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		WorldConfigPath: "configs/world.json",
	}
}

// ResolveSettings loads the world file and applies the command-line overrides.
func ResolveSettings(cfg AppConfig) Settings {
	settings := DefaultSettings()
	loaded, err := loadSettingsFromFile(cfg.WorldConfigPath, settings)
	if err != nil {
		log.Printf("world config: %v (using defaults)", err)
	} else {
		settings = loaded
	}
	settings.Match = cfg.MatchOverrides.apply(settings.Match)
	settings.Params = cfg.ParamOverrides.apply(settings.Params)
	return settings
}

const shutdownGrace = 5 * time.Second

func StartApp(addr string, cfg AppConfig) {
	settings := ResolveSettings(cfg)
	hub := NewHub(settings.Params)
	srv := NewServer(hub, settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(srv.settings.Server.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hub.CleanupEmptyRooms()
			}
		}
	}()

	httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}
	go func() {
		<-ctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("starting server on %s (%.0fx%.0f, %d AI, %s, fleet speed %.1f, push %.0fHz)",
		addr, settings.Match.Width, settings.Match.Height, settings.Match.AIOpponents,
		settings.Match.Difficulty, settings.Params.FleetSpeed, srv.settings.Server.UpdateRateHz)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-ctx.Done()
	hub.Close()
	log.Println("server stopped")
}
