// Package config loads typed configuration from environment variables.
//
// Configuration structs are annotated with caarlos0/env tags and parsed with
// Load, which caches one value per struct type for the life of the process.
// Dotenv files are read with joho/godotenv, either implicitly (./.env on the
// first Load) or explicitly through LoadEnv:
//
//	type DBConfig struct {
//	    URL string `env:"DATABASE_URL,required"`
//	}
//
//	var db DBConfig
//	if err := config.Load(&db); err != nil {
//	    return err
//	}
//
// ForceReload and ResetCache exist for tests that change the environment
// between cases.
package config
