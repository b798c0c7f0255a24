package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	JWTSecret         string
	CORSOrigins       string
	FeedRetention     time.Duration // ventana de visibilidad de anuncios y discusiones
	FeedPruneInterval time.Duration
}

func Load() *Config {
	// .env es opcional, solo para desarrollo local
	if err := godotenv.Load(); err == nil {
		log.Println("Variables cargadas desde .env")
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=opsmerge port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		FeedRetention:     getDuration("FEED_RETENTION", 24*time.Hour),
		FeedPruneInterval: getDuration("FEED_PRUNE_INTERVAL", 10*time.Minute),
	}

	// Controles de seguridad para producción
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] La variable de entorno JWT_SECRET no está definida. Es obligatoria para producción.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres. Riesgo de seguridad.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=opsmerge port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usa el valor por defecto, define tu propia conexión Postgres para producción.")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS usa el valor por defecto, define tu propio dominio para producción.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s inválido (%q), usando %s", key, v, def)
		return def
	}
	return d
}
