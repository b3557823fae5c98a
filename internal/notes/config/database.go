package config

import (
	"net"
	"net/url"
	"strconv"

	"notesapi/pkg/db/postgres"
)

// PostgresConfig содержит настройки PostgreSQL-хранилища и путь к его миграциям.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"NOTES_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"NOTES_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"NOTES_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"NOTES_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"NOTES_POSTGRES_DB" env-default:"notes"`
	SSLMode  string `yaml:"sslmode" env:"NOTES_POSTGRES_SSLMODE" env-default:"disable"`
	MinConn  int    `yaml:"min_conn" env:"NOTES_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"NOTES_POSTGRES_MAX_CONN" env-default:"10"`

	MigrationsPath string `yaml:"migrations_path" env:"NOTES_POSTGRES_MIGRATIONS_PATH" env-default:"migrations/notes"`
}

// GetConnectionURL собирает URL подключения. Учетные данные экранируются,
// поэтому пароль может содержать '@', ':' и '/'.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// GetPoolConfig возвращает параметры пула для pkg/db/postgres.
func (p *PostgresConfig) GetPoolConfig() postgres.Config {
	return postgres.Config{
		DSN:     p.GetConnectionURL(),
		MinConn: p.MinConn,
		MaxConn: p.MaxConn,
	}
}
