package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Moyo-Made/social-shake-backend/api/controllers"
	"github.com/Moyo-Made/social-shake-backend/api/middleware"
	"github.com/Moyo-Made/social-shake-backend/internal/applications"
	"github.com/Moyo-Made/social-shake-backend/internal/auth"
	"github.com/Moyo-Made/social-shake-backend/internal/contests"
	"github.com/Moyo-Made/social-shake-backend/internal/creators"
	"github.com/Moyo-Made/social-shake-backend/internal/notifications"
	"github.com/Moyo-Made/social-shake-backend/internal/settlement"
	"github.com/Moyo-Made/social-shake-backend/pkg/config"
	"github.com/Moyo-Made/social-shake-backend/pkg/db"
	"github.com/Moyo-Made/social-shake-backend/pkg/logger"
	"github.com/Moyo-Made/social-shake-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	authService auth.Service,
	registerService auth.RegisterService,
	contestsService contests.Service,
	applicationsService applications.Service,
	creatorsService creators.Service,
	notificationsService notifications.Service,
	settlementService settlement.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/contests", func(r chi.Router) {
			r.Post("/", controllers.CreateContest(contestsService, logg))
			r.Get("/", controllers.ListContests(contestsService, logg))
			r.Route("/{contestID}", func(r chi.Router) {
				r.Get("/", controllers.GetContest(contestsService, logg))
				r.Patch("/", controllers.UpdateContest(contestsService, logg))
				r.Post("/transition", controllers.TransitionContest(contestsService, logg))
				r.Post("/applications", controllers.ApplyToContest(applicationsService, logg))
				r.Get("/applications", controllers.ListContestApplications(applicationsService, logg))
				r.Post("/finalize-winners", controllers.FinalizeWinners(settlementService, logg))
				r.Post("/payouts/process", controllers.ProcessPayouts(settlementService, logg))
				r.Get("/payouts", controllers.ListPayouts(settlementService, logg))
			})
		})

		r.Route("/applications", func(r chi.Router) {
			r.Get("/mine", controllers.ListMyApplications(applicationsService, logg))
			r.Post("/{applicationID}/review", controllers.ReviewApplication(applicationsService, logg))
		})

		r.Route("/creators", func(r chi.Router) {
			r.Put("/me/profile", controllers.UpsertCreatorProfile(creatorsService, logg))
			r.Get("/me/profile", controllers.GetCreatorProfile(creatorsService, logg))
			r.Post("/me/payment-account", controllers.ConnectPaymentAccount(creatorsService, logg))
			r.Get("/me/payment-account", controllers.GetPaymentAccount(creatorsService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Post("/creators/{userID}/payouts-enabled", controllers.SetPayoutsEnabled(creatorsService, logg))
		})
	})

	return r
}
