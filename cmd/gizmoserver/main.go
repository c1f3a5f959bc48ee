// Command gizmoserver exposes the candidate gizmo search engine over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsinvention/optimalgizmo/pkg/catalog"
	"github.com/rsinvention/optimalgizmo/pkg/gizmolog"
	"github.com/rsinvention/optimalgizmo/pkg/httpapi"
	"github.com/rsinvention/optimalgizmo/pkg/probability"
)

func main() {
	addr := flag.String("addr", getEnv("GIZMO_ADDR", ":8080"), "http listen address")
	workers := flag.Int("workers", 4, "evaluation workers per query")
	perksCSV := flag.String("perks", "data/perkdata.csv", "path to the perk definitions CSV")
	componentsCSV := flag.String("components", "data/compdata.csv", "path to the component contributions CSV")
	costsCSV := flag.String("costs", "data/compcost.csv", "path to the component costs CSV")
	flag.Parse()

	log := gizmolog.New(true)

	cat, err := catalog.LoadCSV(*perksCSV, *componentsCSV, *costsCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog load error: %v\n", err)
		os.Exit(1)
	}
	log.Info("catalog loaded: %d perks, %d components", len(cat.Perks()), len(cat.Components()))

	server := &httpapi.Server{
		Cat:     cat,
		Cache:   probability.NewBudgetCDFCache(),
		Workers: *workers,
		Log:     log,
	}
	mux := httpapi.NewMux(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info("listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
