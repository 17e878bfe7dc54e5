package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/config"
	appHTTP "github.com/staffops-hq/staffops-backend-go/internal/handler/http"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/cron"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/email"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/oauth"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
	assetService "github.com/staffops-hq/staffops-backend-go/internal/service/asset"
	attendanceService "github.com/staffops-hq/staffops-backend-go/internal/service/attendance"
	employeeService "github.com/staffops-hq/staffops-backend-go/internal/service/employee"
	gamificationService "github.com/staffops-hq/staffops-backend-go/internal/service/gamification"
	issueService "github.com/staffops-hq/staffops-backend-go/internal/service/issue"
	reportService "github.com/staffops-hq/staffops-backend-go/internal/service/report"
	rewardService "github.com/staffops-hq/staffops-backend-go/internal/service/reward"
	teamService "github.com/staffops-hq/staffops-backend-go/internal/service/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid APP_TIMEZONE: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	achievementRepo := postgresql.NewAchievementRepository(db)
	rewardRepo := postgresql.NewRewardRepository(db)
	redemptionRepo := postgresql.NewRedemptionRepository(db)
	issueRepo := postgresql.NewIssueRepository(db)
	assetRepo := postgresql.NewAssetRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	hub := sse.NewHub()

	gamificationSvc := gamificationService.NewGamificationService(
		db,
		ledgerRepo,
		achievementRepo,
		attendanceRepo,
		hub,
		cfg.Gamification.PunctualityBonusPoints,
		loc,
		nil,
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		breakRepo,
		employeeRepo,
		gamificationSvc,
		loc,
		nil,
	)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, googleService)
	rewardSvc := rewardService.NewRewardService(
		db,
		rewardRepo,
		redemptionRepo,
		ledgerRepo,
		employeeRepo,
		emailService,
		hub,
	)
	issueSvc := issueService.NewIssueService(db, issueRepo, ledgerRepo, hub)
	assetSvc := assetService.NewAssetService(assetRepo, employeeRepo)
	teamSvc := teamService.NewTeamService(db, teamRepo, employeeRepo)
	reportSvc := reportService.NewReportService(reportRepo, loc, nil)

	if cfg.Gamification.CronEnabled {
		jobs := cron.NewGamificationJobs(attendanceRepo, employeeRepo, gamificationSvc, db, loc)
		scheduler := cron.NewScheduler()
		jobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	handlers := appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Gamification: appHTTP.NewGamificationHandler(gamificationSvc),
		Reward:       appHTTP.NewRewardHandler(rewardSvc),
		Issue:        appHTTP.NewIssueHandler(issueSvc),
		Asset:        appHTTP.NewAssetHandler(assetSvc),
		Team:         appHTTP.NewTeamHandler(teamSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Events:       appHTTP.NewEventsHandler(hub, jwtService),
	}
	router := appHTTP.NewRouter(cfg, jwtService, handlers)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Shutdown error: ", err)
	}
}
