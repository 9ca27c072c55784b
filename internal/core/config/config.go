package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER"`
	Database  DatabaseConfig  `mapstructure:"DATABASE"`
	Ethereum  EthereumConfig  `mapstructure:"ETHEREUM"`
	AWS       AWSConfig       `mapstructure:"AWS"`
	Scheduler SchedulerConfig `mapstructure:"SCHEDULER"`
	Auth      AuthConfig      `mapstructure:"AUTH"`
}

type ServerConfig struct {
	Host     string `mapstructure:"HOST"`
	Port     string `mapstructure:"PORT"`
	Endpoint string `mapstructure:"ENDPOINT"`
}

type DatabaseConfig struct {
	Username     string `mapstructure:"USERNAME"`
	Password     string `mapstructure:"PASSWORD"`
	Host         string `mapstructure:"HOST"`
	Port         string `mapstructure:"PORT"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	SSLMode      string `mapstructure:"SSL_MODE"`
}

type AWSConfig struct {
	Region          string `mapstructure:"REGION"`
	BucketName      string `mapstructure:"BUCKET_NAME"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY"`
}

// EthereumConfig only carries the connection; the token address and the
// required chain are fixed in models.
type EthereumConfig struct {
	RPC               string `mapstructure:"RPC"`
	RewardPoolAddress string `mapstructure:"REWARD_POOL_ADDRESS"`
}

type SchedulerConfig struct {
	// Interval is the pool monitor period in minutes.
	Interval int `mapstructure:"INTERVAL"`
}

type AuthConfig struct {
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	TokenTTLMinutes int    `mapstructure:"TOKEN_TTL_MINUTES"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type ConfigManager struct {
	config     *Config
	configPath string
	mutex      sync.RWMutex
}

var (
	instance *ConfigManager
	once     sync.Once
)

func (dc *DatabaseConfig) GetConnectionURL() string {
	sslMode := dc.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dc.Username,
		dc.Password,
		dc.Host,
		dc.Port,
		dc.DatabaseName,
		sslMode,
	)
}

func GetConfigManager() *ConfigManager {
	once.Do(func() {
		instance = NewConfigManager(".env")
	})
	return instance
}

func NewConfigManager(path string) *ConfigManager {
	return &ConfigManager{configPath: path}
}

func (cm *ConfigManager) SetConfigPath(path string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.configPath = path
	cm.config = nil
}

func (cm *ConfigManager) GetConfigPath() string {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.configPath
}

func (cm *ConfigManager) GetConfig() (*Config, error) {
	cm.mutex.RLock()
	if cm.config != nil {
		defer cm.mutex.RUnlock()
		return cm.config, nil
	}
	cm.mutex.RUnlock()

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.config != nil {
		return cm.config, nil
	}

	cfg, err := loadConfigFile(cm.configPath)
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm.config, nil
}

func (cm *ConfigManager) ReloadConfig() (*Config, error) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cfg, err := loadConfigFile(cm.configPath)
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm.config, nil
}

func loadConfigFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("SERVER", map[string]interface{}{
		"HOST":     stringOr(v, "SERVER_HOST", "0.0.0.0"),
		"PORT":     stringOr(v, "SERVER_PORT", "8080"),
		"ENDPOINT": stringOr(v, "SERVER_ENDPOINT", "/api"),
	})

	v.SetDefault("DATABASE", map[string]interface{}{
		"USERNAME":      v.GetString("DATABASE_USERNAME"),
		"PASSWORD":      v.GetString("DATABASE_PASSWORD"),
		"HOST":          v.GetString("DATABASE_HOST"),
		"PORT":          v.GetString("DATABASE_PORT"),
		"DATABASE_NAME": v.GetString("DATABASE_DATABASE_NAME"),
		"SSL_MODE":      v.GetString("DATABASE_SSL_MODE"),
	})

	v.SetDefault("AWS", map[string]interface{}{
		"REGION":            v.GetString("AWS_REGION"),
		"BUCKET_NAME":       v.GetString("AWS_BUCKET_NAME"),
		"ACCESS_KEY_ID":     v.GetString("AWS_ACCESS_KEY_ID"),
		"SECRET_ACCESS_KEY": v.GetString("AWS_SECRET_ACCESS_KEY"),
	})

	v.SetDefault("ETHEREUM", map[string]interface{}{
		"RPC":                 v.GetString("ETHEREUM_RPC"),
		"REWARD_POOL_ADDRESS": v.GetString("ETHEREUM_REWARD_POOL_ADDRESS"),
	})

	v.SetDefault("SCHEDULER", map[string]interface{}{
		"INTERVAL": v.GetInt("SCHEDULER_INTERVAL"),
	})

	v.SetDefault("AUTH", map[string]interface{}{
		"JWT_SECRET":        v.GetString("AUTH_JWT_SECRET"),
		"TOKEN_TTL_MINUTES": v.GetInt("AUTH_TOKEN_TTL_MINUTES"),
	})

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Username == "" || c.Database.Password == "" ||
		c.Database.Host == "" || c.Database.Port == "" ||
		c.Database.DatabaseName == "" {
		return fmt.Errorf("missing required database configuration")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("missing required AUTH_JWT_SECRET")
	}

	return nil
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return fallback
}
