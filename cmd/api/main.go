package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rtj1/stock-earnings/db"
	"github.com/rtj1/stock-earnings/internal/cache"
	"github.com/rtj1/stock-earnings/internal/handler"
	"github.com/rtj1/stock-earnings/internal/repository"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error opening insight store: %v", err)
	}
	defer db.Close()

	repo := repository.NewInsightRepository(db.DB)

	insightCache, err := cache.Load(repo)
	if err != nil {
		slog.Warn("could not load cleaned insights, serving empty cache", "error", err)
		insightCache = cache.New()
	}
	slog.Info("insight cache loaded", "records", insightCache.Len())

	insightHandler := handler.NewInsightHandler(insightCache)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.LoadHTMLGlob("templates/*")

	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/dashboard")
	})
	r.GET("/dashboard", insightHandler.GetDashboard)

	r.GET("/tickers_quarters", insightHandler.GetTickersQuarters)
	r.GET("/summary/:ticker", insightHandler.GetSummary)
	r.GET("/insights/:ticker", insightHandler.GetInsights)
	r.GET("/company/:ticker/:quarter_key", insightHandler.GetCompanyRecord)
	r.GET("/health", insightHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
