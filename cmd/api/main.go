package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/server"
	"github.com/emilythestrangee/qa-forum/backend/internal/tags"
)

func main() {
	app := &cli.App{
		Name:  "qa-forum",
		Usage: "Q&A forum API server",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: func(c *cli.Context) error {
			return runServer(c.Context)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(c *cli.Context) error {
			return runServer(c.Context)
		},
	}
}

func migrateCommand() *cli.Command {
	run := func(dir database.Direction) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return database.RunMigrations(cfg.Database.URL(), dir)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back the SQL schema",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "Apply all pending migrations", Action: run(database.Up)},
			{Name: "down", Usage: "Roll back every migration", Action: run(database.Down)},
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, closeCache, err := openTagCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeCache()

	srv := server.New(cfg, db, cache).HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Println("📝 Press Ctrl+C to stop the server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openTagCache connects to Redis when configured. Without REDIS_ADDR the tag
// index is read from the database every time.
func openTagCache(ctx context.Context, cfg *config.RedisConfig) (tags.Cache, func(), error) {
	if cfg.Addr == "" {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return tags.NewRedisCache(client, cfg.TagIndexTTL), func() { _ = client.Close() }, nil
}
