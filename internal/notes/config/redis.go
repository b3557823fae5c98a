package config

import (
	"time"

	redisdb "notesapi/pkg/db/redis"
)

// RedisConfig представляет конфигурацию кэша Redis.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"NOTES_REDIS_HOST" env-default:"localhost"`
	Port     int           `yaml:"port" env:"NOTES_REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"password" env:"NOTES_REDIS_PASSWORD" env-default:""`
	DB       int           `yaml:"db" env:"NOTES_REDIS_DB" env-default:"0"`
	PoolSize int           `yaml:"pool_size" env:"NOTES_REDIS_POOL_SIZE" env-default:"10"`
	Timeout  time.Duration `yaml:"timeout" env:"NOTES_REDIS_TIMEOUT" env-default:"5s"`
	TTL      time.Duration `yaml:"ttl" env:"NOTES_REDIS_TTL" env-default:"10m"`

	// InvalidationTTL - сколько ключ остается занятым маркером после записи заметки.
	InvalidationTTL time.Duration `yaml:"invalidation_ttl" env:"NOTES_REDIS_INVALIDATION_TTL" env-default:"5s"`
}

// GetClientConfig возвращает настройки клиента для pkg/db/redis.
func (r *RedisConfig) GetClientConfig() *redisdb.Config {
	return &redisdb.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Timeout:  r.Timeout,
	}
}
