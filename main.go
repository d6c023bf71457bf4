package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanraiden/novelweb/config"
	"github.com/alanraiden/novelweb/handlers"
	"github.com/alanraiden/novelweb/middleware"
	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/service"
	"github.com/alanraiden/novelweb/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("mongodb indexes:", err)
	}

	var storage *service.StorageService
	if cfg.S3Bucket != "" {
		storage, err = service.NewStorageService(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("storage:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; media uploads will fail")
	}

	maxBytes := cfg.MaxUploadMB * 1024 * 1024
	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	oauthHandler := &handlers.OAuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	usersHandler := &handlers.UsersHandler{DB: db}
	authorsHandler := &handlers.AuthorsHandler{DB: db}
	novelsHandler := &handlers.NovelsHandler{DB: db, Storage: storage, MaxBytes: maxBytes}
	chaptersHandler := &handlers.ChaptersHandler{DB: db}
	reviewsHandler := &handlers.ReviewsHandler{DB: db}
	postsHandler := &handlers.PostsHandler{DB: db, Storage: storage, MaxBytes: maxBytes}
	chatbotHandler := &handlers.ChatbotHandler{Bot: service.NewChatbotService(cfg.ChatbotAPIKey, cfg.ChatbotAPIURL)}

	auth := middleware.Auth(cfg.JWTSecret)
	authorOnly := middleware.RequireRole(db, models.RoleAuthor)

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","message":"server is running"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})
		r.Route("/oauth", func(r chi.Router) {
			r.Post("/google-login", oauthHandler.GoogleLogin)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", usersHandler.List)
			r.Get("/name/{name}", usersHandler.ByName)
			r.Get("/me", usersHandler.Me)
			r.Get("/liked-novels", usersHandler.LikedNovels)
		})
		r.Route("/authors", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", authorsHandler.List)
			r.Get("/{id}", authorsHandler.Get)
			r.Get("/author-dashboard", authorsHandler.Dashboard)
			r.Post("/applyAuthorship", authorsHandler.Apply)
		})
		r.Route("/novels", func(r chi.Router) {
			r.Get("/", novelsHandler.List)
			r.Get("/search", novelsHandler.Search)
			r.Get("/{id}", novelsHandler.Get)
			r.Get("/by-author/{authorId}", novelsHandler.ByAuthor)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/{novelId}/toggle-like", novelsHandler.ToggleLike)
				r.Group(func(r chi.Router) {
					r.Use(authorOnly)
					r.Post("/", novelsHandler.Create)
					r.Patch("/{id}", novelsHandler.Update)
					r.Delete("/{id}", novelsHandler.Delete)
				})
			})
		})
		r.Route("/chapters", func(r chi.Router) {
			r.With(auth).Get("/{novelId}/chapters", chaptersHandler.List)
			r.Get("/{novelId}/chapters/{chapterId}", chaptersHandler.Get)
			r.With(auth, authorOnly).Post("/{novelId}/new-chapter", chaptersHandler.Upload)
		})
		r.Route("/novel-reviews", func(r chi.Router) {
			r.Get("/{novelId}/reviews", reviewsHandler.ListByNovel)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/{novelId}/reviews/{reviewId}", reviewsHandler.Get)
				r.Post("/{novelId}/reviews", reviewsHandler.Add)
				r.Post("/{novelId}/reviews/{reviewId}", reviewsHandler.AddReply)
				r.Post("/{reviewId}/toggle-like", reviewsHandler.ToggleLike)
				r.Post("/{reviewId}/replies/{replyId}/toggle-like", reviewsHandler.ToggleReplyLike)
				r.Delete("/{reviewId}", reviewsHandler.Delete)
			})
		})
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsHandler.List)
			r.Get("/{id}", postsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/user/user-posts", postsHandler.ByUser)
				r.Post("/", postsHandler.Create)
				r.Post("/{postId}/comments", postsHandler.AddComment)
				r.Post("/{postId}/like", postsHandler.ToggleLike)
				r.Post("/{postId}/comments/{commentId}/like", postsHandler.ToggleCommentLike)
			})
		})
		r.Route("/chatbot", func(r chi.Router) {
			r.Post("/query", chatbotHandler.Query)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
