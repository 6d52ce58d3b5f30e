package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	Minio           MinioConfig           `mapstructure:"minio"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Pipeline        PipelineConfig        `mapstructure:"pipeline"`
	Backends        BackendsConfig        `mapstructure:"backends"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	BootstrapServers  []string `mapstructure:"bootstrap_servers"`
	ClientID          string   `mapstructure:"client_id"`
	GroupID           string   `mapstructure:"group_id"`
	Enabled           bool     `mapstructure:"enabled"`
	TopicPrefix       string   `mapstructure:"topic_prefix"`
	NumPartitions     int      `mapstructure:"num_partitions"`
	ReplicationFactor int      `mapstructure:"replication_factor"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	ExpireTime time.Duration `mapstructure:"expire_time"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// PipelineConfig 流水线配置
type PipelineConfig struct {
	// StageConcurrency 每个阶段的worker并发数，key为阶段名
	StageConcurrency     map[string]int `mapstructure:"stage_concurrency"`
	DefaultConcurrency   int            `mapstructure:"default_concurrency"`
	SubtitleCap          int            `mapstructure:"subtitle_cap"`
	MusicPollInterval    time.Duration  `mapstructure:"music_poll_interval"`
	MusicPollMaxAttempts int            `mapstructure:"music_poll_max_attempts"`
	DownloadRetries      int            `mapstructure:"download_retries"`
	MaxStageAttempts     int            `mapstructure:"max_stage_attempts"`
	DownloadRetryBackoff time.Duration  `mapstructure:"download_retry_backoff"`
	ScriptLimit          int            `mapstructure:"script_limit"`
	TempDir              string         `mapstructure:"temp_dir"`
}

// BackendsConfig 各阶段外部后端配置
type BackendsConfig struct {
	EnhancerURL     string        `mapstructure:"enhancer_url"`
	TTSURL          string        `mapstructure:"tts_url"`
	ContentURL      string        `mapstructure:"content_url"`
	MusicURL        string        `mapstructure:"music_url"`
	CompositeURL    string        `mapstructure:"composite_url"`
	RenderURL       string        `mapstructure:"render_url"`
	RecognizerBin   string        `mapstructure:"recognizer_bin"`
	RecognizerArgs  []string      `mapstructure:"recognizer_args"`
	RecognizerURL   string        `mapstructure:"recognizer_url"`
	FFprobeBin      string        `mapstructure:"ffprobe_bin"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

// WorkerConfig Worker相关配置
type WorkerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	WorkerID            string        `mapstructure:"worker_id"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "videogen-service")
	viper.SetDefault("kafka.group_id", "videogen-service-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topic_prefix", "videogen")
	viper.SetDefault("pipeline.subtitle_cap", 42)

	// 设置环境变量前缀
	viper.SetEnvPrefix("VIDEOGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// 解析配置
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Pipeline.DefaultConcurrency <= 0 {
		c.Pipeline.DefaultConcurrency = 2
	}
	if c.Pipeline.SubtitleCap <= 0 {
		c.Pipeline.SubtitleCap = 42
	}
	if c.Pipeline.MusicPollInterval <= 0 {
		c.Pipeline.MusicPollInterval = 5 * time.Second
	}
	if c.Pipeline.MusicPollMaxAttempts <= 0 {
		c.Pipeline.MusicPollMaxAttempts = 60
	}
	if c.Pipeline.DownloadRetries <= 0 {
		c.Pipeline.DownloadRetries = 3
	}
	if c.Pipeline.MaxStageAttempts <= 0 {
		c.Pipeline.MaxStageAttempts = 3
	}
	if c.Pipeline.DownloadRetryBackoff <= 0 {
		c.Pipeline.DownloadRetryBackoff = 2 * time.Second
	}
	if c.Pipeline.ScriptLimit <= 0 {
		c.Pipeline.ScriptLimit = 10000
	}
	if c.Pipeline.TempDir == "" {
		c.Pipeline.TempDir = "/tmp/videogen"
	}

	if c.Backends.RecognizerBin == "" {
		c.Backends.RecognizerBin = "vosk-recognizer"
	}
	if c.Backends.FFprobeBin == "" {
		c.Backends.FFprobeBin = "ffprobe"
	}
	if c.Backends.RequestTimeout <= 0 {
		c.Backends.RequestTimeout = 60 * time.Second
	}
	if c.Backends.DownloadTimeout <= 0 {
		c.Backends.DownloadTimeout = 5 * time.Minute
	}

	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "videogen-service"
	}
	if c.ServiceRegistry.DialTimeout == 0 {
		c.ServiceRegistry.DialTimeout = 5 * time.Second
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "videogen-service"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "videogen-service-group"
	}
	if c.Kafka.TopicPrefix == "" {
		c.Kafka.TopicPrefix = "videogen"
	}
	if c.Kafka.NumPartitions <= 0 {
		c.Kafka.NumPartitions = 1
	}
}

// StageWorkers 返回指定阶段的worker并发数
func (c *PipelineConfig) StageWorkers(stage string) int {
	if n, ok := c.StageConcurrency[stage]; ok && n >= 0 {
		return n
	}
	return c.DefaultConcurrency
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
