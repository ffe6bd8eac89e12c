// cmd/sped/main.go
package main

import (
	"log"

	"sped-service/internal/api/handlers"
	"sped-service/internal/api/responses"
	"sped-service/internal/config"
	"sped-service/internal/core/sped"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Falha ao carregar a configuração: ", err)
	}

	responses.InitLogger(cfg.Log.Level)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	spedService := sped.NewService()
	spedHandler := handlers.NewSpedHandler(spedService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/sped/gerar", spedHandler.HandleGerarSped)
		apiV1.POST("/sped/gerar-lote", spedHandler.HandleGerarSpedLote)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "sped-service"})
	})

	log.Printf("🚀 SPED Service (Go) iniciado e escutando na porta %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor SPED: ", err)
	}
}
