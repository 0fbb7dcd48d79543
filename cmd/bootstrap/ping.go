package bootstrap

import (
	"context"
	"fmt"
	"time"

	"lab-appointment-web/config"
	"lab-appointment-web/internal/infrastructure/cache"
	"lab-appointment-web/internal/infrastructure/labapi"

	"github.com/sirupsen/logrus"
)

// Ping checks that the lab API and, when configured, Redis are reachable.
func Ping(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(ctx, cfg.API.Timeout+5*time.Second)
	defer cancel()

	if err := labapi.NewClient(cfg.API, log).Ping(ctx); err != nil {
		return err
	}
	log.WithField("url", cfg.API.BaseURL).Info("Lab API reachable")

	if !cfg.RedisEnabled() {
		log.Info("REDIS_HOST not set, skipping Redis check")
		return nil
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	log.WithFields(logrus.Fields{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	}).Info("Redis reachable")
	return nil
}
