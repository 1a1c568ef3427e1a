package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/config"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/database"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/repository/memory"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/practice-kpi-backend/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var (
		recordSource report.RecordSource
		staffRepo    report.StaffSettingRepository
	)
	switch cfg.Report.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Error connecting to database:", err)
		}
		defer db.Close()
		recordSource = postgresql.NewRecordRepository(db)
		staffRepo = postgresql.NewStaffSettingRepository(db)
	case config.StoreDriverMemory:
		store := memory.NewStore()
		if cfg.Report.FixturesPath != "" {
			if err := store.LoadFixturesFile(cfg.Report.FixturesPath); err != nil {
				log.Fatal("Error loading fixtures: ", err)
			}
		} else {
			slog.Warn("Memory store started without MEMORY_FIXTURES_PATH, reports will be empty")
		}
		recordSource, staffRepo = store, store
	default:
		log.Fatal("Unsupported store driver: ", cfg.Report.StoreDriver)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	reportSvc := reportService.NewReportService(recordSource, staffRepo, cfg.Report.PageSize)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(cfg.App, JWTService, reportHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
