package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ESPNAPI     ESPNAPI
	Season      Season
	HTTP        HTTP
	Cache       Cache
	TelegramBot TelegramBot
	Refresh     Refresh
}

type ESPNAPI struct {
	Year     string  `envconfig:"YEAR" required:"true"`
	LeagueID string  `envconfig:"LEAGUE_ID" required:"true"`
	SWID     string  `envconfig:"SWID" required:"true"`
	ESPNS2   string  `envconfig:"ESPN_S2" required:"true"`
	BaseURL  string  `envconfig:"ESPN_BASE_URL" default:"https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"`
	RPS      float64 `envconfig:"ESPN_RPS" default:"5"`
}

// Season bounds the weeks the fetcher is allowed to request.
type Season struct {
	TotalWeeks int `envconfig:"TOTAL_WEEKS" default:"12"`
}

type HTTP struct {
	Addr             string   `envconfig:"HTTP_ADDR" default:":8080"`
	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type Cache struct {
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"24h"`
}

// TelegramBot is optional; the bot is only started when Token is set.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type Refresh struct {
	Enabled  bool   `envconfig:"REFRESH_ENABLED" default:"true"`
	Location string `envconfig:"REFRESH_LOCATION" default:"America/Chicago"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
