// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Advisor         `yaml:"advisor"`
	Renderer        `yaml:"renderer"`
}

// Storage структура для выбора и настройки хранилища.
// Driver: "postgres" либо "memory". SeedDemo добавляет демо-пользователя
// и имеет смысл только для memory-бэкенда.
type Storage struct {
	Driver           string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	ConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath   string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	SeedDemo         bool   `yaml:"seed_demo" env:"STORAGE_SEED_DEMO" env-default:"false"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Advisor структура для настройки AI-советника.
// Driver: "openai" либо "static" (фиксированные тексты, без внешних вызовов).
type Advisor struct {
	AdvisorDriver string `yaml:"driver" env:"ADVISOR_DRIVER" env-default:"static"`
	OpenAIKey     string `yaml:"openai_key" env:"OPENAI_API_KEY"`
	OpenAIModel   string `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// Renderer структура для настройки генератора отчётов.
type Renderer struct {
	OutputDir string `yaml:"output_dir" env:"REPORTS_OUTPUT_DIR" env-default:"./reports"`
}

// MustLoad функция для загрузки конфига. Если CONFIG_PATH не задан,
// конфигурация собирается только из переменных окружения и значений по умолчанию.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from env: %s", err)
		}
		return &cfg
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
