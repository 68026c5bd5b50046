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
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Broker          BrokerConfig          `mapstructure:"broker"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	Pipeline        PipelineConfig        `mapstructure:"pipeline"`
	Transcriber     TranscriberConfig     `mapstructure:"transcriber"`
	Translator      TranslatorConfig      `mapstructure:"translator"`
	Uploader        UploaderConfig        `mapstructure:"uploader"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
}

// ServerConfig 运维HTTP服务配置
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

// KafkaConfig Kafka配置
type KafkaConfig struct {
	BootstrapServers []string          `mapstructure:"bootstrap_servers"`
	ClientID         string            `mapstructure:"client_id"`
	Enabled          bool              `mapstructure:"enabled"`
	Topics           KafkaTopicsConfig `mapstructure:"topics"`
}

type KafkaTopicsConfig struct {
	VideoEvents string `mapstructure:"video_events"`
}

// BrokerConfig 作业队列（Redis实现）配置
type BrokerConfig struct {
	QueueName         string        `mapstructure:"queue_name"`
	VisibilityTimeout time.Duration `mapstructure:"visibility_timeout"`
	ReceiveWait       time.Duration `mapstructure:"receive_wait"`
	MaxReceiveBatch   int           `mapstructure:"max_receive_batch"`
}

// WorkerConfig Worker相关配置
type WorkerConfig struct {
	WorkerID            string        `mapstructure:"worker_id"`
	LightWorkers        int           `mapstructure:"light_workers"`
	HeavyWorkers        int           `mapstructure:"heavy_workers"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	JobDeadline         time.Duration `mapstructure:"job_deadline"`
	HeavyJobDeadline    time.Duration `mapstructure:"heavy_job_deadline"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// PipelineConfig 媒体处理配置
type PipelineConfig struct {
	FFmpegBinaryPath string        `mapstructure:"ffmpeg_binary_path"`
	YtdlpBinaryPath  string        `mapstructure:"ytdlp_binary_path"`
	TempDir          string        `mapstructure:"temp_dir"`
	FFmpegTimeout    time.Duration `mapstructure:"ffmpeg_timeout"`
	DownloadTimeout  time.Duration `mapstructure:"download_timeout"`
	DefaultFormat    string        `mapstructure:"default_format"`
	PresignTTL       time.Duration `mapstructure:"presign_ttl"`
}

// TranscriberConfig 转写服务配置
type TranscriberConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Language string        `mapstructure:"language"`
}

// TranslatorConfig 翻译服务配置
type TranslatorConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	TargetLanguage string        `mapstructure:"target_language"`
	BatchSize      int           `mapstructure:"batch_size"`
}

// UploaderConfig 视频发布服务配置
type UploaderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("service_registry.service_name", "clipflow-worker")
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "clipflow-service")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.video_events", "clipflow.video.events")
	viper.SetDefault("broker.queue_name", "clipflow:jobs")

	// 设置环境变量前缀
	viper.SetEnvPrefix("GO_CLIPFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

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

	if c.Broker.QueueName == "" {
		c.Broker.QueueName = "clipflow:jobs"
	}
	if c.Broker.VisibilityTimeout <= 0 {
		c.Broker.VisibilityTimeout = 2 * time.Minute
	}
	if c.Broker.ReceiveWait <= 0 {
		c.Broker.ReceiveWait = 5 * time.Second
	}
	if c.Broker.MaxReceiveBatch <= 0 {
		c.Broker.MaxReceiveBatch = 10
	}

	// Worker相关默认值
	if c.Worker.LightWorkers <= 0 {
		c.Worker.LightWorkers = 4
	}
	if c.Worker.HeavyWorkers <= 0 {
		c.Worker.HeavyWorkers = 1
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = (c.Worker.LightWorkers + c.Worker.HeavyWorkers) * 4
	}
	if c.Worker.JobDeadline <= 0 {
		c.Worker.JobDeadline = 5 * time.Minute
	}
	if c.Worker.HeavyJobDeadline <= 0 {
		c.Worker.HeavyJobDeadline = time.Hour
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}

	// 媒体处理默认值
	if c.Pipeline.TempDir == "" {
		c.Pipeline.TempDir = "/tmp/clipflow"
	}
	if c.Pipeline.FFmpegBinaryPath == "" {
		c.Pipeline.FFmpegBinaryPath = "ffmpeg"
	}
	if c.Pipeline.YtdlpBinaryPath == "" {
		c.Pipeline.YtdlpBinaryPath = "yt-dlp"
	}
	if c.Pipeline.FFmpegTimeout == 0 {
		c.Pipeline.FFmpegTimeout = time.Hour
	}
	if c.Pipeline.DownloadTimeout == 0 {
		c.Pipeline.DownloadTimeout = 30 * time.Minute
	}
	if c.Pipeline.DefaultFormat == "" {
		c.Pipeline.DefaultFormat = "mp4"
	}
	if c.Pipeline.PresignTTL <= 0 {
		c.Pipeline.PresignTTL = 6 * time.Hour
	}

	if c.Transcriber.Timeout <= 0 {
		c.Transcriber.Timeout = 30 * time.Second
	}
	if c.Translator.Timeout <= 0 {
		c.Translator.Timeout = 60 * time.Second
	}
	if c.Translator.BatchSize <= 0 {
		c.Translator.BatchSize = 50
	}
	if c.Translator.TargetLanguage == "" {
		c.Translator.TargetLanguage = "en"
	}
	if c.Uploader.Timeout <= 0 {
		c.Uploader.Timeout = 5 * time.Minute
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
		c.Kafka.ClientID = "clipflow-service"
	}
	if c.Kafka.Topics.VideoEvents == "" {
		c.Kafka.Topics.VideoEvents = "clipflow.video.events"
	}
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
