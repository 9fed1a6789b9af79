package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	SocketPort        string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis             Redis         `yaml:"redis"`
	SQLiteStoragePath string        `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"./data/archive.db"`
	GameTTL           time.Duration `yaml:"game-ttl" env:"GAME_TTL" env-default:"24h"`
	Rules             Rules         `yaml:"rules"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Rules are the tunable game constants. A zero DiceSeed seeds from the clock.
type Rules struct {
	StartingCash            int   `yaml:"starting-cash" env-default:"1500"`
	GoBonus                 int   `yaml:"go-bonus" env-default:"200"`
	Bail                    int   `yaml:"bail" env-default:"50"`
	MaxJailTurns            int   `yaml:"max-jail-turns" env-default:"3"`
	MaxDoubles              int   `yaml:"max-doubles" env-default:"3"`
	MortgageInterestPercent int   `yaml:"mortgage-interest-percent" env-default:"10"`
	MinPlayers              int   `yaml:"min-players" env-default:"2"`
	MaxPlayers              int   `yaml:"max-players" env-default:"8"`
	DiceSeed                int64 `yaml:"dice-seed" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
