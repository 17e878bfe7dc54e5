package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/config"
	"github.com/staffops-hq/staffops-backend-go/internal/handler/http/middleware"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Attendance   AttendanceHandler
	Employee     EmployeeHandler
	Gamification GamificationHandler
	Reward       RewardHandler
	Issue        IssueHandler
	Asset        AssetHandler
	Team         TeamHandler
	Report       ReportHandler
	Events       EventsHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "staffops-portal"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The event stream authenticates with its own short-lived token
		// passed as a query parameter, so it sits outside the bearer group.
		r.Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Post("/events/token", h.Events.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/kiosk", h.Attendance.KioskCheck)
				r.Post("/breaks/start", h.Attendance.StartBreak)
				r.Post("/breaks/end", h.Attendance.EndBreak)
				r.Get("/my", h.Attendance.GetMyAttendance)

				// Team leaders and admins
				r.Group(func(r chi.Router) {
					r.Use(middleware.TeamLeadOrAdmin)
					r.Get("/", h.Attendance.List)
					r.Get("/{id}", h.Attendance.Get)
					r.Get("/{id}/history", h.Attendance.GetEditHistory)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", h.Attendance.Edit)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", h.Employee.GetMe)
				r.Put("/me/pin", h.Employee.SetPIN)
				r.Get("/me/identity/link", h.Employee.LinkIdentityURL)
				r.Post("/me/identity/link", h.Employee.LinkIdentity)

				// Team leaders and admins
				r.Group(func(r chi.Router) {
					r.Use(middleware.TeamLeadOrAdmin)
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Employee.Create)
					r.Post("/import", h.Employee.BulkImport)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Deactivate)
					r.Delete("/{id}/purge", h.Employee.Purge)
				})
			})

			r.Route("/gamification", func(r chi.Router) {
				r.Get("/balance/my", h.Gamification.GetMyBalance)
				r.Get("/ledger/my", h.Gamification.ListMyLedger)
				r.Get("/achievements", h.Gamification.ListAchievements)
				r.Get("/achievements/my", h.Gamification.GetMyAchievements)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/award", h.Gamification.Award)
					r.Post("/spend", h.Gamification.Spend)
					r.Get("/balance/{employeeID}", h.Gamification.GetBalance)
					r.Get("/ledger/{employeeID}", h.Gamification.ListLedger)
					r.Post("/achievements", h.Gamification.CreateAchievement)
					r.Put("/achievements/{id}/active", h.Gamification.SetAchievementActive)
					r.Post("/evaluate/{employeeID}", h.Gamification.EvaluateEmployee)
				})
			})

			r.Route("/rewards", func(r chi.Router) {
				r.Get("/", h.Reward.List)
				r.Get("/{id}", h.Reward.Get)
				r.Post("/{id}/redeem", h.Reward.Redeem)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Reward.Create)
					r.Put("/{id}", h.Reward.Update)
				})
			})

			r.Route("/redemptions", func(r chi.Router) {
				r.Get("/my", h.Reward.ListMyRedemptions)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Reward.ListRedemptions)
					r.Post("/{id}/approve", h.Reward.ApproveRedemption)
					r.Post("/{id}/reject", h.Reward.RejectRedemption)
					r.Post("/{id}/fulfill", h.Reward.FulfillRedemption)
				})
			})

			r.Route("/issues", func(r chi.Router) {
				r.Use(middleware.TeamLeadOrAdmin)
				r.Get("/", h.Issue.List)
				r.Get("/{id}", h.Issue.Get)
				r.Post("/", h.Issue.Create)
				r.Post("/{id}/resolve", h.Issue.Resolve)
			})

			r.Route("/assets", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Asset.List)
				r.Post("/", h.Asset.Create)
				r.Get("/{id}", h.Asset.Get)
				r.Post("/{id}/assign", h.Asset.Assign)
				r.Post("/{id}/return", h.Asset.Return)
				r.Post("/{id}/retire", h.Asset.Retire)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.Team.List)
				r.Get("/{id}", h.Team.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Team.Create)
					r.Put("/{id}", h.Team.Update)
					r.Delete("/{id}", h.Team.Delete)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/leaderboard", h.Report.Leaderboard)

				// Team leaders and admins
				r.Group(func(r chi.Router) {
					r.Use(middleware.TeamLeadOrAdmin)
					r.Get("/cycle-summary", h.Report.CycleSummary)
				})
			})
		})
	})
	return r
}
