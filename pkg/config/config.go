// Package config loads gridcalc settings from a TOML file, a .env file and
// the environment, in increasing order of precedence.
//
// # File
//
// The default location is $XDG_CONFIG_HOME/gridcalc/config.toml
// (~/.config/gridcalc/config.toml on most systems). A missing default file
// is not an error; a missing file passed explicitly is.
//
//	[log]
//	level = "info"
//
//	[server]
//	addr = ":8080"
//	cache_size = 128
//	read_timeout = "15s"
//	write_timeout = "15s"
//
//	[store]
//	driver = "redis"    # memory, file, redis, mongo or postgres
//
//	[store.redis]
//	addr = "localhost:6379"
//
// # Environment
//
// After the file is decoded, a .env file in the working directory is loaded
// (without overriding variables already set) and these variables replace
// the file's values when non-empty:
//
//	GRIDCALC_LOG_LEVEL, GRIDCALC_ADDR, GRIDCALC_CACHE_SIZE,
//	GRIDCALC_STORE, GRIDCALC_STORE_DIR,
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB,
//	MONGO_URI, MONGO_DATABASE, POSTGRES_DSN
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Drivers lists the supported store drivers.
var Drivers = []string{DriverMemory, DriverFile, DriverRedis, DriverMongo, DriverPostgres}

// Config is the complete gridcalc configuration.
type Config struct {
	Log    Log    `toml:"log"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	CacheSize    int           `toml:"cache_size"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Store selects and configures the sheet store.
type Store struct {
	Driver   string   `toml:"driver"`
	Dir      string   `toml:"dir"`
	Prefix   string   `toml:"prefix"`
	Redis    Redis    `toml:"redis"`
	Mongo    Mongo    `toml:"mongo"`
	Postgres Postgres `toml:"postgres"`
}

// Redis configures the redis store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo configures the MongoDB store.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Postgres configures the PostgreSQL store.
type Postgres struct {
	DSN   string `toml:"dsn"`
	Table string `toml:"table"`
}

// Default returns the configuration used when nothing is set.
// Store.Dir is empty, meaning the file store picks its default directory.
func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Server: Server{
			Addr:         ":8080",
			CacheSize:    128,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Store: Store{
			Driver: DriverFile,
			Prefix: "gridcalc:sheet:",
			Redis:  Redis{Addr: "localhost:6379"},
			Mongo: Mongo{
				URI:        "mongodb://localhost:27017",
				Database:   "gridcalc",
				Collection: "sheets",
			},
			Postgres: Postgres{Table: "sheets"},
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "locate config dir")
	}
	return filepath.Join(dir, "gridcalc", "config.toml"), nil
}

// Load builds a Config from defaults, the TOML file at path (DefaultPath if
// empty), .env and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := decodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrCodeNotFound, err, "config %s", path)
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Log.Level, "GRIDCALC_LOG_LEVEL")
	setString(&cfg.Server.Addr, "GRIDCALC_ADDR")
	setString(&cfg.Store.Driver, "GRIDCALC_STORE")
	setString(&cfg.Store.Dir, "GRIDCALC_STORE_DIR")
	setString(&cfg.Store.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Store.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Store.Mongo.URI, "MONGO_URI")
	setString(&cfg.Store.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Store.Postgres.DSN, "POSTGRES_DSN")

	if err := setInt(&cfg.Server.CacheSize, "GRIDCALC_CACHE_SIZE"); err != nil {
		return err
	}
	return setInt(&cfg.Store.Redis.DB, "REDIS_DB")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", key)
	}
	*dst = n
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(Drivers, c.Store.Driver) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown store driver %q (want one of %s)",
			c.Store.Driver, strings.Join(Drivers, ", "))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errs.New(errs.ErrCodeInvalidInput, "server addr cannot be empty")
	}
	if c.Server.CacheSize <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server cache_size must be positive, got %d", c.Server.CacheSize)
	}
	switch c.Store.Driver {
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.redis addr cannot be empty")
		}
	case DriverMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.mongo needs uri, database and collection")
		}
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.postgres dsn cannot be empty")
		}
		if !validIdent(c.Store.Postgres.Table) {
			return errs.New(errs.ErrCodeInvalidInput, "store.postgres table %q is not a plain identifier", c.Store.Postgres.Table)
		}
	}
	return nil
}

func validIdent(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
