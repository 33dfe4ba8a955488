package httpapi

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"quizboard/internal/metrics"
)

type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// disables the CORS wrapper.
	CORSOrigins []string
	// AuthRatePerMinute caps signup and login attempts per client address.
	// Zero disables the limit.
	AuthRatePerMinute int
}

func NewRouter(api *API, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	signup := http.HandlerFunc(api.HandleSignup)
	login := http.HandlerFunc(api.HandleLogin)
	if opts.AuthRatePerMinute > 0 {
		limiter := newIPRateLimiter(opts.AuthRatePerMinute)
		signup = limiter.wrap(signup)
		login = limiter.wrap(login)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", api.HandleHealth)
	mux.HandleFunc("/categories", api.HandleCategories)
	mux.HandleFunc("/categories/{key}", api.HandleCategory)
	mux.HandleFunc("/categories/{key}/questions/{index}/hint", api.HandleHint)
	mux.HandleFunc("/users/signup", signup)
	mux.HandleFunc("/users/login", login)
	mux.HandleFunc("/users/{user_id}", api.HandleUser)
	mux.HandleFunc("/users/{user_id}/name", api.HandleUserName)
	mux.HandleFunc("/users/{user_id}/settings", api.HandleSettings)
	mux.HandleFunc("/users/{user_id}/results", api.HandleResults)
	mux.HandleFunc("/users/{user_id}/streak", api.HandleStreak)
	mux.HandleFunc("/users/{user_id}/profile", api.HandleProfile)
	mux.HandleFunc("/users/{user_id}/performance", api.HandlePerformance)
	mux.HandleFunc("/users/{user_id}/notifications", api.HandleNotifications)
	mux.HandleFunc("/users/{user_id}/notifications/read-all", api.HandleNotificationsReadAll)
	mux.HandleFunc("/users/{user_id}/notifications/{id}/read", api.HandleNotificationRead)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics.Handler())
	}

	var handler http.Handler = withObservability(mux, logger, opts.Metrics)
	if len(opts.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(handler)
	}
	return handler
}
