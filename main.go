package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/kova98/feedview.api/config"
	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/data/repos"
	"github.com/kova98/feedview.api/feeds"
	"github.com/kova98/feedview.api/handlers"
	"github.com/kova98/feedview.api/metrics"
	"github.com/kova98/feedview.api/previews"
	"github.com/kova98/feedview.api/sources"
	"github.com/kova98/feedview.api/transport"
)

var auth *handlers.AuthHandler

func main() {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts))
	slog.SetDefault(logger)

	client, err := transport.NewClient(config.Config.ProxyURL)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}

	m := metrics.NewDefault()
	reddit := sources.NewRedditClient(logger, client, config.Config.RedditAPIURL, config.Config.UserAgent)
	exchanger := sources.NewTokenExchanger(
		logger,
		client,
		config.Config.RedditAuthURL,
		config.Config.RedditClientID,
		config.Config.RedditClientSecret,
		config.Config.RedditRedirectURI,
		config.Config.UserAgent,
	)
	resolver := previews.NewResolver(logger, previews.NewHTTPFetcher(client, config.Config.UserAgent), m)

	var db *sqlx.DB
	var archiver feeds.Archiver
	var postRepo *repos.PostRepo
	if config.Config.ArchiveEnabled() {
		db, err = sqlx.Connect("postgres", config.Config.PostgresURL)
		if err != nil {
			slog.Error("failed to connect to db", "error", err)
			os.Exit(1)
		}

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)

		if err := data.RunMigrations(db.DB); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		postRepo = repos.NewPostRepo(db)
		archiver = postRepo
	}

	if config.Config.AuthEnabled() {
		auth = handlers.NewAuthHandler(gocloak.NewClient(config.Config.KeycloakURL), config.Config.KeycloakRealm)
	}

	store := feeds.NewStore(logger, reddit, resolver, archiver, m)
	feed := handlers.NewFeedHandler(store, resolver, config.Config.FeedLimit)
	preview := handlers.NewPreviewHandler(resolver)
	redditAuth := handlers.NewRedditAuthHandler(logger, exchanger)
	users := handlers.NewUserHandler()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /r/{subreddit}", private(feed.GetFeed))
	mux.HandleFunc("GET /r/{subreddit}/comments/{id}", private(feed.GetThread))
	mux.HandleFunc("GET /state", private(feed.GetState))

	mux.HandleFunc("GET /previews", private(preview.GetPreview))
	mux.HandleFunc("POST /previews", private(preview.RequestPreview))

	mux.HandleFunc("POST /auth/token", private(redditAuth.ExchangeToken))
	mux.HandleFunc("GET /me", private(users.GetMe))

	if postRepo != nil {
		archive := handlers.NewArchiveHandler(postRepo)
		mux.HandleFunc("GET /archive/r/{subreddit}", private(archive.GetArchivedPosts))
	}

	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:              ":" + config.Config.Port,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
		if db != nil {
			if err := db.Close(); err != nil {
				slog.Error("failed to close database connection", "error", err)
			}
		}
	}()

	slog.Info("Starting server", "port", config.Config.Port, "archive", config.Config.ArchiveEnabled(), "auth", config.Config.AuthEnabled())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-reddit-token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// private requires a Keycloak user when authentication is configured and is
// the same as public otherwise.
func private(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth == nil {
			public(handler)(w, r)
			return
		}

		result := auth.GetUser(r.Context(), r.Header.Get("Authorization"))
		if result.Code != http.StatusOK {
			slog.Debug("unauthorized request", "path", r.URL.Path)
			writeResult(w, result)
			return
		}

		user := result.Body.(data.User)
		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)

		public(handler)(w, r.WithContext(ctx))
	}
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	switch res.Code {
	case http.StatusInternalServerError:
		slog.Error("internal error", "error", res.Error.Error())
	case http.StatusBadGateway:
		slog.Warn("upstream error", "error", res.Error)
	}
}
