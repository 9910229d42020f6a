// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "configs/checkout-service.yaml"

type Config struct {
	App   AppConfig   `yaml:"app"`
	Infra InfraConfig `yaml:"infra"`
	Fraud FraudConfig `yaml:"fraud"`
	PSP   PSPConfig   `yaml:"psp"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"logLevel"`
	LogPretty bool   `yaml:"logPretty"`
}

type InfraConfig struct {
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
	Nacos struct {
		Enabled     bool   `yaml:"enabled"`
		ServerAddrs string `yaml:"serverAddrs"`
		Namespace   string `yaml:"namespace"`
		Group       string `yaml:"group"`
	} `yaml:"nacos"`
	MySQL struct {
		Addr     string `yaml:"addr"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"mysql"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		DecisionTopic string   `yaml:"decisionTopic"`
	} `yaml:"kafka"`
}

// FraudConfig 风控网关相关配置。
type FraudConfig struct {
	CallerHeader   string        `yaml:"callerHeader"`
	MetadataKey    string        `yaml:"metadataKey"`
	ScoringService string        `yaml:"scoringService"`
	ScoringBaseURL string        `yaml:"scoringBaseURL"`
	APIKey         string        `yaml:"apiKey"`
	Timeout        time.Duration `yaml:"timeout"`
	// PaymentMethods 按 PSP 模块分组登记的支付方式，供下游 3DS 组件识别，不影响是否评分。
	PaymentMethods map[string][]string `yaml:"paymentMethods"`
}

type PSPConfig struct {
	Service string `yaml:"service"`
	BaseURL string `yaml:"baseURL"`
}

var (
	currentConfig *Config
	configOnce    sync.Once
	configErr     error
)

// DefaultConfig 返回本地开发可直接使用的默认配置。
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "checkout-service"
	cfg.App.Port = 8080
	cfg.App.LogLevel = "info"
	cfg.Infra.Nacos.ServerAddrs = "localhost:8848"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	cfg.Infra.MySQL.Addr = "localhost:3306"
	cfg.Infra.MySQL.User = "root"
	cfg.Infra.MySQL.Database = "checkout"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.DecisionTopic = "fraud-decisions"
	cfg.Fraud.CallerHeader = "X-Tapbuy-Call"
	cfg.Fraud.MetadataKey = "tapbuy"
	cfg.Fraud.ScoringService = "fraud-detection-service"
	cfg.Fraud.ScoringBaseURL = "http://localhost:8085"
	cfg.Fraud.Timeout = 3 * time.Second
	cfg.PSP.Service = "psp-service"
	cfg.PSP.BaseURL = "http://localhost:8090"
	return cfg
}

// Init 加载一次配置：默认值 <- YAML 文件 <- 环境变量。
func Init() error {
	configOnce.Do(func() {
		currentConfig, configErr = LoadConfig(getEnv("CONFIG_FILE", defaultConfigFile))
	})
	return configErr
}

// GetCurrentConfig 返回已加载的配置，未调用 Init 时返回默认配置。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		return DefaultConfig()
	}
	return currentConfig
}

// LoadConfig 文件不存在时只使用默认值和环境变量。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Port = getEnvInt("APP_PORT", cfg.App.Port)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Infra.MySQL.Addr = getEnv("MYSQL_ADDR", cfg.Infra.MySQL.Addr)
	cfg.Infra.MySQL.User = getEnv("MYSQL_USER", cfg.Infra.MySQL.User)
	cfg.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.MySQL.Password)
	cfg.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", cfg.Infra.MySQL.Database)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Infra.Redis.Password)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(brokers, ",")
	}

	cfg.Fraud.ScoringBaseURL = getEnv("FRAUD_SCORING_BASE_URL", cfg.Fraud.ScoringBaseURL)
	cfg.Fraud.APIKey = getEnv("FRAUD_API_KEY", cfg.Fraud.APIKey)
	if timeout, err := time.ParseDuration(getEnv("FRAUD_TIMEOUT", "")); err == nil {
		cfg.Fraud.Timeout = timeout
	}
	cfg.PSP.BaseURL = getEnv("PSP_BASE_URL", cfg.PSP.BaseURL)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
