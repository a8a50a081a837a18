// Package config loads the settings of the scenariokeeper binary from an
// optional YAML file, a .env file and SCENARIOKEEPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"scenariokeeper/internal/blob"
	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/mirror"
)

// EnvPrefix prefixes every environment override, e.g. SCENARIOKEEPER_BACKUP_DIR.
const EnvPrefix = "SCENARIOKEEPER"

// ErrUnknownSet is returned for a set id missing from the configuration.
var ErrUnknownSet = errors.New("config: unknown document set")

// Config holds all configuration for the binary.
type Config struct {
	Sets    map[string]SetConfig `mapstructure:"sets" validate:"required,min=1,dive"`
	Backup  BackupConfig         `mapstructure:"backup"`
	Mirror  MirrorConfig         `mapstructure:"mirror"`
	Log     LogConfig            `mapstructure:"log"`
	Metrics MetricsConfig        `mapstructure:"metrics"`
}

// SetConfig binds a document set to its file.
type SetConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// BackupConfig selects the backup store.
type BackupConfig struct {
	Driver string   `mapstructure:"driver" validate:"oneof=fs s3 memory"`
	Dir    string   `mapstructure:"dir"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config holds the S3 backup store settings.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	Prefix    string `mapstructure:"prefix"`
	PathStyle bool   `mapstructure:"path_style"`
}

// MirrorConfig selects the read-model mirror.
type MirrorConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=none sqlite postgres"`
	DSN    string `mapstructure:"dsn"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"oneof=json console"`
	Output   string `mapstructure:"output"`
}

// MetricsConfig selects the metrics recorder.
type MetricsConfig struct {
	Driver   string `mapstructure:"driver" validate:"oneof=none prometheus expvar"`
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration. file may be empty; a .env file in the working
// directory is loaded first when present.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Sets) == 0 {
		cfg.Sets = DefaultSets()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DefaultSets is used when no sets are configured. A configured sets section
// replaces it entirely.
func DefaultSets() map[string]SetConfig {
	return map[string]SetConfig{
		"kids":    {Path: "data/scenarios_child.json"},
		"parents": {Path: "data/scenarios_parent.json"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backup.driver", "fs")
	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.s3.bucket", "")
	v.SetDefault("backup.s3.region", "us-east-1")
	v.SetDefault("backup.s3.endpoint", "")
	v.SetDefault("backup.s3.prefix", "")
	v.SetDefault("backup.s3.path_style", false)

	v.SetDefault("mirror.driver", "none")
	v.SetDefault("mirror.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.output", "")

	v.SetDefault("metrics.driver", "none")
	v.SetDefault("metrics.textfile", "")
}

// Validate checks tag constraints plus the driver-specific requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Backup.Driver == string(blob.DriverS3) && c.Backup.S3.Bucket == "" {
		return errors.New("backup.s3.bucket is required for the s3 driver")
	}
	if c.Backup.Driver == string(blob.DriverFilesystem) && c.Backup.Dir == "" {
		return errors.New("backup.dir is required for the fs driver")
	}
	if c.Mirror.Driver == string(mirror.DriverSQLite) && c.Mirror.DSN == "" {
		return errors.New("mirror.dsn is required for the sqlite driver")
	}
	return nil
}

// SetIDs returns the configured set ids in ascending order.
func (c *Config) SetIDs() []string {
	ids := make([]string, 0, len(c.Sets))
	for id := range c.Sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Path returns the document file of setID.
func (c *Config) Path(setID string) (string, error) {
	set, ok := c.Sets[strings.ToLower(setID)]
	if !ok {
		return "", fmt.Errorf("%w: %s (known: %s)", ErrUnknownSet, setID, strings.Join(c.SetIDs(), ", "))
	}
	return set.Path, nil
}

// BlobConfig converts the backup section for blob.Open.
func (c *Config) BlobConfig() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.Backup.Driver),
		Dir:    c.Backup.Dir,
		S3: blob.S3Config{
			Bucket:    c.Backup.S3.Bucket,
			Region:    c.Backup.S3.Region,
			Endpoint:  c.Backup.S3.Endpoint,
			Prefix:    c.Backup.S3.Prefix,
			PathStyle: c.Backup.S3.PathStyle,
		},
	}
}

// MirrorConfig converts the mirror section for mirror.Open.
func (c *Config) MirrorConfig() mirror.Config {
	return mirror.Config{Driver: mirror.Driver(c.Mirror.Driver), DSN: c.Mirror.DSN}
}

// LoggingConfig converts the log section for logging.New.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Encoding: c.Log.Encoding, OutputPath: c.Log.Output}
}
