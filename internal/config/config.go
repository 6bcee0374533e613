package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	Issuer             string `mapstructure:"issuer"`
	ExpireHours        int    `mapstructure:"expire_hours"`
	ResetExpireMinutes int    `mapstructure:"reset_expire_minutes"`
	// CheckRevocation compares presented session tokens with the last one
	// issued for the user. Off means purely stateless verification.
	CheckRevocation bool `mapstructure:"check_revocation"`
}

type SecurityConfig struct {
	BcryptCost      int    `mapstructure:"bcrypt_cost"`
	EncryptionKey   string `mapstructure:"encryption_key"`
	MaxFailedLogins int    `mapstructure:"max_failed_logins"`
	LockMinutes     int    `mapstructure:"lock_minutes"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type AppSubConfig struct {
	PageSize        int  `mapstructure:"page_size"`
	ExposeResetLink bool `mapstructure:"expose_reset_link"`
	// AllowInfoUpdate registers PUT /api/info for the shared info document.
	AllowInfoUpdate bool `mapstructure:"allow_info_update"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "./data/paisatrack.db")
	v.SetDefault("jwt.issuer", "paisatrack")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("jwt.reset_expire_minutes", 60)
	v.SetDefault("jwt.check_revocation", true)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.max_failed_logins", 5)
	v.SetDefault("security.lock_minutes", 10)
	v.SetDefault("log.file", "./logs/app.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("backup.dir", "./data/backups")
	v.SetDefault("app.page_size", 10)
	v.SetDefault("app.expose_reset_link", false)
	v.SetDefault("app.allow_info_update", false)
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		appConfig, err = read(path)
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. PFT_SERVER_PORT=9000
	v.SetEnvPrefix("PFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must be set")
	}
	return &c, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
