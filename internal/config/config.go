package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"KNOT_LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"KNOT_HTTP_PORT" env-default:"5000"`
	Store      string     `yaml:"store" env:"KNOT_STORE" env-default:"memory"`
	Redis      Redis      `yaml:"redis"`
	Classifier Classifier `yaml:"classifier"`
}

type Redis struct {
	Host string `yaml:"host" env:"KNOT_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"KNOT_REDIS_PORT" env-default:"6379"`
}

type Classifier struct {
	URL     string        `yaml:"url" env:"KNOT_CLASSIFIER_URL" env-default:"http://localhost:5001/classify"`
	Timeout time.Duration `yaml:"timeout" env:"KNOT_CLASSIFIER_TIMEOUT" env-default:"10s"`
}

// Client - settings of the terminal game client.
type Client struct {
	LogLevel       string        `yaml:"log-level" env:"KNOT_LOG_LEVEL" env-default:"info"`
	APIURL         string        `yaml:"api-url" env:"KNOT_API_URL" env-default:"http://localhost:5000/api"`
	RequestTimeout time.Duration `yaml:"request-timeout" env:"KNOT_REQUEST_TIMEOUT" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	loadDotEnv()

	config := &Config{}

	if err := readConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// MustLoadClient - load client configuration; the file is optional, env always applies.
func MustLoadClient(path string) *Client {
	loadDotEnv()

	config := &Client{}

	if err := readConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load client config: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func readConfig(path string, config any) error {
	err := cleanenv.ReadConfig(path, config)
	if errors.Is(err, fs.ErrNotExist) {
		return cleanenv.ReadEnv(config)
	}

	return err
}

// .env is optional, variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}
