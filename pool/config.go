package pool

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config describes one connection pool. Construct it directly or load it
// from the environment with LoadConfig; the zero value is not usable.
type Config struct {
	// Driver selects the backend: mysql, postgres, or sqlite.
	Driver string `env:"DB_DRIVER" envDefault:"mysql"`

	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASSWORD"`

	// Name is the database to bind to. For sqlite it is the file path,
	// or :memory: for an in-memory database.
	Name string `env:"DB_NAME"`

	// DSN, when set, bypasses DSN assembly entirely.
	DSN string `env:"DB_DSN"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one is present in the working directory.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse pool config: %w", err)
	}
	return cfg, nil
}

// driverName maps the configured backend to its database/sql driver
// registration.
func (c Config) driverName() (string, error) {
	switch c.Driver {
	case "mysql":
		return "mysql", nil
	case "postgres":
		return "pgx", nil
	case "sqlite":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// dsn assembles the connection string for the configured backend.
func (c Config) dsn() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case "mysql":
		return c.mysqlDSN(c.Name), nil
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:   "/" + c.Name,
		}
		return u.String(), nil
	case "sqlite":
		if c.Name == "" {
			return ":memory:", nil
		}
		return c.Name, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// mysqlDSN builds a MySQL DSN bound to the given database name. An empty
// name yields a server-level connection, used when the target database has
// to be created first.
func (c Config) mysqlDSN(dbName string) string {
	mc := mysqldrv.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = dbName
	mc.ParseTime = true
	return mc.FormatDSN()
}
