package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/utils"
)

type Config struct {
	ServiceName  string   `yaml:"service_name"`
	Environment  string   `yaml:"environment"`
	Version      string   `yaml:"version"`
	Port         int      `yaml:"port"`
	JWTSecretKey string   `yaml:"jwt_secret_key"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// LoadConfig reads the environment, then overlays the optional yaml file
// named by CONFIG_FILE. File values win over env defaults; unset file fields
// change nothing.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		ServiceName:  utils.GetEnv("SERVICE_NAME", "habipro-backend", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		Version:      utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:         utils.GetEnvAsInt("PORT", 8080, log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
	}
	if raw := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
			}
		}
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	log.Info("config file applied", "path", path)
	return cfg, nil
}
