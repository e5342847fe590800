package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cron       CronConfig       `mapstructure:"cron"`
	Notes      NotesConfig      `mapstructure:"notes"`
	Snapshots  SnapshotsConfig  `mapstructure:"snapshots"`
	Draws      DrawsConfig      `mapstructure:"draws"`
	Changefeed ChangefeedConfig `mapstructure:"changefeed"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// CronConfig holds the schedules for the background sweeps. Schedules use
// robfig/cron syntax, including the @every and @daily shorthands.
type CronConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	SnapshotSweep string `mapstructure:"snapshot_sweep"`
	StaleDrawScan string `mapstructure:"stale_draw_scan"`
	FeedPrune     string `mapstructure:"feed_prune"`
}

// NotesConfig controls the debounced note saver. A project's note edits
// are held until Debounce of quiet time passes, then written once.
type NotesConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type SnapshotsConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RecomputeInterval time.Duration `mapstructure:"recompute_interval"`
}

// DrawsConfig controls the stale-pending-draw watcher. A draw still
// pending after StaleAfter is flagged on the change feed.
type DrawsConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
	ScanLimit  int           `mapstructure:"scan_limit"`
}

type ChangefeedConfig struct {
	CoalesceWindow time.Duration `mapstructure:"coalesce_window"`
	RetentionDays  int           `mapstructure:"retention_days"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.snapshot_sweep", "@daily")
	v.SetDefault("cron.stale_draw_scan", "@every 1h")
	v.SetDefault("cron.feed_prune", "@daily")
	v.SetDefault("notes.debounce", "3s")
	v.SetDefault("snapshots.enabled", true)
	v.SetDefault("snapshots.recompute_interval", "10m")
	v.SetDefault("draws.stale_after", "336h")
	v.SetDefault("draws.scan_limit", 100)
	v.SetDefault("changefeed.coalesce_window", "2s")
	v.SetDefault("changefeed.retention_days", 90)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
