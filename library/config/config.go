package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vagnerhf/library/library/internal/mail"
	"github.com/vagnerhf/library/pkg/auth"
	"github.com/vagnerhf/library/pkg/circuit_breaker"
	"github.com/vagnerhf/library/pkg/kafka"
	"github.com/vagnerhf/library/pkg/logger"
	"github.com/vagnerhf/library/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

// Admin is the account seeded at startup. Seeding is skipped without an email.
type Admin struct {
	Name     string `envconfig:"ADMIN_NAME" default:"Admin"`
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD" json:"-"`
}

type Config struct {
	Server         HTTPServer  `yaml:"server"`
	Database       postgres.DB `yaml:"db"`
	Kafka          kafka.Config
	Auth           auth.Config
	Mail           mail.Config
	CircuitBreaker circuit_breaker.Config
	Admin          Admin
	Log            logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
