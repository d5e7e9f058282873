package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Totarae/shortener/internal/util"
	"github.com/spf13/viper"
)

// Режимы хранилища
const (
	ModeMongo    = "mongo"
	ModeDatabase = "database"
	ModeRedis    = "redis"
	ModeFile     = "file"
	ModeMemory   = "memory"
)

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress     string        `json:"server_address"`
	GRPCAddress       string        `json:"grpc_address"`
	BaseURL           string        `json:"base_url"`
	MongoURI          string        `json:"mongo_uri"`
	MongoDatabase     string        `json:"mongo_database"`
	DatabaseDSN       string        `json:"database_dsn"`
	RedisAddr         string        `json:"redis_addr"`
	FileStoragePath   string        `json:"file_storage_path"`
	Mode              string        `json:"-"`
	StoreTimeout      time.Duration `json:"store_timeout"`
	DefaultByteLength int           `json:"default_byte_length"`
}

// флаг -> ключ конфигурации
var flagKeys = map[string]string{
	"a": "server_address",
	"g": "grpc_address",
	"b": "base_url",
	"m": "mongo_uri",
	"d": "database_dsn",
	"r": "redis_addr",
	"f": "file_storage_path",
}

// NewConfig инициализирует конфигурацию на основе аргументов командной строки
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load собирает конфигурацию. Приоритет: переменные окружения, флаги,
// .env, JSON-файл, значения по умолчанию.
func Load(args []string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_address", "localhost:8080") // Значения по умолчанию
	v.SetDefault("grpc_address", "")
	v.SetDefault("base_url", "http://localhost:8080/")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "shortener-db")
	v.SetDefault("database_dsn", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("file_storage_path", "")
	v.SetDefault("default_byte_length", 4)
	v.SetDefault("store_timeout", "3s")

	fs := flag.NewFlagSet("shortener", flag.ContinueOnError)
	values := make(map[string]*string, len(flagKeys))
	for name, key := range flagKeys {
		values[name] = fs.String(name, "", key)
	}
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Не удалось прочитать JSON-файл конфигурации %q: %v", *configPath, err)
		}
	}

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			log.Printf("Ошибка разбора .env: %v", err)
		}
	}

	v.AutomaticEnv()

	// Флаг применяется, только если переменная окружения не задана
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if _, set := os.LookupEnv(strings.ToUpper(key)); !set {
			v.Set(key, *values[f.Name])
		}
	})

	cfg := &Config{
		ServerAddress:     v.GetString("server_address"),
		GRPCAddress:       v.GetString("grpc_address"),
		BaseURL:           v.GetString("base_url"),
		MongoURI:          v.GetString("mongo_uri"),
		MongoDatabase:     v.GetString("mongo_database"),
		DatabaseDSN:       v.GetString("database_dsn"),
		RedisAddr:         v.GetString("redis_addr"),
		FileStoragePath:   v.GetString("file_storage_path"),
		DefaultByteLength: v.GetInt("default_byte_length"),
		StoreTimeout:      v.GetDuration("store_timeout"),
	}

	// Определяем режим работы
	switch {
	case cfg.MongoURI != "":
		cfg.Mode = ModeMongo
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.RedisAddr != "":
		cfg.Mode = ModeRedis
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	log.Printf("Инициализация конфигурации: ServerAddress=%s", cfg.ServerAddress)
	log.Printf("Инициализация конфигурации: GRPCAddress=%s", cfg.GRPCAddress)
	log.Printf("Инициализация конфигурации: BaseURL=%s", cfg.BaseURL)
	log.Printf("Инициализация конфигурации: Mode=%s", cfg.Mode)

	// Проверка корректности конфигурации
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("адрес сервера не может быть пустым")
	}
	if err := util.ValidateURL(cfg.BaseURL); err != nil {
		return fmt.Errorf("некорректный базовый URL: %w", err)
	}
	if cfg.DefaultByteLength < 1 || cfg.DefaultByteLength > 32 {
		return fmt.Errorf("длина идентификатора по умолчанию вне диапазона 1..32: %d", cfg.DefaultByteLength)
	}
	if cfg.StoreTimeout <= 0 {
		return fmt.Errorf("таймаут хранилища должен быть положительным: %s", cfg.StoreTimeout)
	}
	if cfg.Mode == ModeMongo && cfg.MongoDatabase == "" {
		return errors.New("имя базы MongoDB не может быть пустым")
	}
	return nil
}
