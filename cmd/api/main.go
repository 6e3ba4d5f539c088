package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gharbas.org/internal/auth"
	"gharbas.org/internal/homestay"
	"gharbas.org/internal/httpapi"
	"gharbas.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("GHARBAS_PG_DSN")
	if dsn == "" {
		log.Fatal("missing GHARBAS_PG_DSN")
	}
	secret := os.Getenv("GHARBAS_AUTH_SECRET")
	if secret == "" {
		log.Fatal("missing GHARBAS_AUTH_SECRET")
	}
	addr := os.Getenv("GHARBAS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	authSvc, err := auth.NewService(auth.NewPGStore(db), secret)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	homestaySvc, err := homestay.NewService(homestay.NewPGStore(db))
	if err != nil {
		log.Fatalf("homestay service: %v", err)
	}

	sessions := auth.SessionChannel{
		Secure: os.Getenv("GHARBAS_COOKIE_SECURE") == "true",
	}

	api := httpapi.New(authSvc, homestaySvc, sessions, httpapi.ReadyProbe{DB: db}, version)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting gharbas-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}
