package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cityguide/docs" //this is required to generate swagger docs
	"cityguide/internal/auth"
	"cityguide/internal/domain/moderation"
	"cityguide/internal/domain/reviews"
	"cityguide/internal/domain/storage"
	"cityguide/internal/images"
	"cityguide/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	images        images.Store
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	reviews       *reviews.Service
	moderation    *moderation.Service
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	uploadDir   string
	mail        mailConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
	reconcile   time.Duration
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if app.config.uploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.config.uploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/api/swagger/doc.json")))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.With(app.RateLimiterMiddleware).Post("/register", app.registerUserHandler)
			r.With(app.RateLimiterMiddleware).Post("/login", app.loginHandler)
			r.With(app.AuthTokenMiddleware).Get("/me", app.meHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Get("/cities", app.listCitiesHandler)

			r.Route("/places", func(r chi.Router) {
				r.Get("/", app.listPlacesHandler)
				r.Get("/search", app.searchPlacesHandler)

				r.Route("/{placeID}", func(r chi.Router) {
					r.Get("/", app.getPlaceHandler)
					r.Get("/reviews", app.getReviewsHandler)
					r.Post("/reviews", app.createReviewHandler)
					r.Post("/reviews/{reviewID}/reply", app.replyToReviewHandler)
				})
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", app.listFavoritesHandler)
				r.Post("/", app.addFavoriteHandler)
				r.Delete("/{favoriteID}", app.removeFavoriteHandler)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/", app.createSubmissionHandler)
				r.Get("/my", app.mySubmissionsHandler)
				r.Get("/cities", app.submissionCitiesHandler)
			})

			r.Route("/my-places", func(r chi.Router) {
				r.Get("/", app.myPlacesHandler)
				r.Patch("/{placeID}", app.proposePlaceUpdateHandler)
				r.Delete("/{placeID}", app.deleteMyPlaceHandler)
			})
			r.Get("/my-updates", app.myUpdatesHandler)

			r.Post("/upload-image", app.uploadImageHandler)

			r.Route("/push-tokens", func(r chi.Router) {
				r.Post("/", app.savePushTokenHandler)
				r.Delete("/", app.removePushTokenHandler)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(app.RequireAdmin)

				r.Get("/stats", app.adminStatsHandler)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", app.adminListUsersHandler)
					r.Patch("/{userID}", app.adminUpdateUserHandler)
					r.Delete("/{userID}", app.adminDeleteUserHandler)
				})
				r.Route("/places", func(r chi.Router) {
					r.Get("/", app.adminListPlacesHandler)
					r.Delete("/{placeID}", app.adminDeletePlaceHandler)
				})
				r.Route("/submissions", func(r chi.Router) {
					r.Get("/", app.adminListSubmissionsHandler)
					r.Patch("/{submissionID}", app.adminReviewSubmissionHandler)
				})
				r.Route("/updates", func(r chi.Router) {
					r.Get("/", app.adminListUpdatesHandler)
					r.Patch("/{updateID}", app.adminReviewUpdateHandler)
				})
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
