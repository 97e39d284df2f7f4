package config

import "os"

type Config struct {
	Env           string
	Port          string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string
	SessionSecret string
	Origin        string // CORS
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	return Config{
		Env:           env("APP_ENV", "dev"),
		Port:          env("API_PORT", "8080"),
		Neo4jURI:      env("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     env("NEO4J_USER", "neo4j"),
		Neo4jPassword: env("NEO4J_PASSWORD", "neo4jpass123"),
		Neo4jDatabase: env("NEO4J_DATABASE", ""),
		SessionSecret: env("SESSION_SECRET", "dev-only-secret"),
		Origin:        env("CORS_ORIGIN", "http://localhost:3000"),
	}
}
