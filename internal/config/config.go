package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBUrl    string
	Port     string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" && driver == "sqlite" {
		dbURL = "pahana.db"
	}

	return Config{
		DBDriver: driver,
		DBUrl:    dbURL,
		Port:     port,
	}
}
