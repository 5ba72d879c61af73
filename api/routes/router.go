package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/popspothq/popspot-backend/api/controllers"
	"github.com/popspothq/popspot-backend/api/middleware"
	"github.com/popspothq/popspot-backend/internal/missions"
	"github.com/popspothq/popspot-backend/internal/rewards"
	"github.com/popspothq/popspot-backend/pkg/config"
	"github.com/popspothq/popspot-backend/pkg/db"
	"github.com/popspothq/popspot-backend/pkg/enums"
	"github.com/popspothq/popspot-backend/pkg/logger"
	pkgredis "github.com/popspothq/popspot-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	missionsService missions.Service,
	rewardsService rewards.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1", func(r chi.Router) {
			r.Route("/missions", func(r chi.Router) {
				r.Post("/{missionId}/complete", controllers.CompleteMission(missionsService, logg))
			})

			r.Route("/mission-sets", func(r chi.Router) {
				r.Get("/{setId}/progress", controllers.MissionProgress(missionsService, logg))
				r.Get("/{setId}/options", controllers.ListRewardOptions(rewardsService, logg))
				r.Get("/{setId}/reward", controllers.MyRewardForSet(rewardsService, logg))
			})

			r.Route("/rewards", func(r chi.Router) {
				r.Post("/claim", controllers.ClaimReward(rewardsService, logg))
				r.Get("/", controllers.ListMyRewards(rewardsService, logg))
			})

			r.Route("/staff", func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, string(enums.MemberRoleStaff), string(enums.MemberRoleAdmin)))
				r.Post("/rewards/redeem", controllers.RedeemReward(rewardsService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
				r.Post("/mission-sets/{setId}/options", controllers.CreateRewardOption(rewardsService, logg))
				r.Get("/mission-sets/{setId}/options", controllers.ListRewardOptions(rewardsService, logg))
				r.Post("/rewards/{rewardId}/cancel", controllers.CancelReward(rewardsService, logg))
			})
		})
	})

	return r
}
