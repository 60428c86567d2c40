package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Host     string
	Port     string
	DBname   string
	Username string
	Password string

	OpenAIModel  string
	ShopifyToken string
	UserAgent    string
}

func (store Config) Dsn() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		store.Host,
		store.Username,
		store.Password,
		store.DBname,
		store.Port,
	)
}

func New() *Config {
	// Local development keeps settings in a .env file; absence is fine.
	godotenv.Load()

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4-turbo"
	}

	agent := os.Getenv("SCRAPER_USER_AGENT")
	if agent == "" {
		agent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	}

	return &Config{
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		DBname:       os.Getenv("DB_NAME"),
		Username:     os.Getenv("DB_USERNAME"),
		Password:     os.Getenv("DB_PASSWORD"),
		OpenAIModel:  model,
		ShopifyToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		UserAgent:    agent,
	}
}

func (store Config) ServerPort() string {
	return os.Getenv("SERVER_PORT")
}

// ScrapeRPS bounds how many catalog requests per second the scraper may
// issue against a storefront. Zero or malformed values fall back to 2.
func (store Config) ScrapeRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("SCRAPE_RPS"), 64)
	if err != nil || rps <= 0 {
		return 2
	}
	return rps
}
