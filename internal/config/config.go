// Package config описывает конфигурацию сервиса и её загрузку
// из переменных окружения (и, опционально, YAML-файла).
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env   string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTP  HTTPConfig  `yaml:"http"`
	Tasks TasksConfig `yaml:"tasks"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"2s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// TasksConfig — перечисления и значения по умолчанию для формы задач.
// Сами значения — это конфигурация, а не бизнес-логика.
type TasksConfig struct {
	DefaultAssignee string   `yaml:"default_assignee" env:"TASKS_DEFAULT_ASSIGNEE" env-default:"Fernando Hirschfeld"`
	Types           []string `yaml:"types" env:"TASKS_TYPES" env-separator:"," env-default:"Bug,Feature,Mejora,Documentación"`
	Priorities      []string `yaml:"priorities" env:"TASKS_PRIORITIES" env-separator:"," env-default:"Alta,Media,Baja"`
	MinStoryPoints  int      `yaml:"min_story_points" env:"TASKS_MIN_STORY_POINTS" env-default:"1"`
	MaxStoryPoints  int      `yaml:"max_story_points" env:"TASKS_MAX_STORY_POINTS" env-default:"13"`
}

// Reader читает конфигурацию из какого-либо источника.
type Reader interface {
	Read() (*Config, error)
}

// EnvReader читает конфигурацию только из окружения.
type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// FileReader читает YAML-файл; переменные окружения перекрывают значения из файла.
type FileReader struct {
	Path string
}

func NewFileReader(path string) FileReader {
	return FileReader{Path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadConfig(r.Path, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Load выбирает источник: файл, если путь задан, иначе окружение.
func Load(path string) (*Config, error) {
	var r Reader = NewEnvReader()
	if path != "" {
		r = NewFileReader(path)
	}
	return r.Read()
}

// Validate проверяет то, что cleanenv проверить не умеет.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %q", c.Env)
	}

	if len(c.Tasks.Types) == 0 {
		return fmt.Errorf("tasks.types must not be empty")
	}
	if len(c.Tasks.Priorities) == 0 {
		return fmt.Errorf("tasks.priorities must not be empty")
	}
	if c.Tasks.MinStoryPoints < 1 || c.Tasks.MaxStoryPoints < c.Tasks.MinStoryPoints {
		return fmt.Errorf("invalid story points range [%d, %d]",
			c.Tasks.MinStoryPoints, c.Tasks.MaxStoryPoints)
	}
	return nil
}

// Addr возвращает адрес для http.Server.
func (h HTTPConfig) Addr() string {
	return h.Host + ":" + h.Port
}
