package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server        ServerConfig        `mapstructure:"server"` // `mapstructure` 标签用于Viper绑定结构体
	MySQL         MySQLConfig         `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
	CDN           CDNConfig           `mapstructure:"cdn"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	AliyunOSS     AliyunOSSConfig     `mapstructure:"aliyun_oss"`
	SMTP          SMTPConfig          `mapstructure:"smtp"`
	ERP           ERPConfig           `mapstructure:"erp"`
	RabbitMQ      RabbitMQConfig      `mapstructure:"rabbitmq"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Share         ShareConfig         `mapstructure:"share"`
	Log           LogConfig           `mapstructure:"log"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CDNConfig CDN 存储配置
// Type 决定实际后端: bunny(存储区 HTTP API) / minio / aliyun_oss
type CDNConfig struct {
	Type        string `mapstructure:"type"`
	StorageZone string `mapstructure:"storage_zone"` // bunny 存储区名称
	AccessKey   string `mapstructure:"access_key"`   // bunny AccessKey 请求头
	Endpoint    string `mapstructure:"endpoint"`     // 例如: storage.bunnycdn.com
	PullZoneURL string `mapstructure:"pull_zone_url"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

type AliyunOSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"` // 例如: oss-cn-hangzhou.aliyuncs.com
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// SMTPConfig 邮件通知配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"` // 发件人地址，例如 noreply@gfiles.example.com
}

// ERPConfig ERP 同步配置
type ERPConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	AppID    string        `mapstructure:"app_id"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RabbitMQConfig RabbitMQ配置
type RabbitMQConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey          string        `mapstructure:"secret_key"`
	ExpiresIn          time.Duration `mapstructure:"expires_in"` // 使用 time.Duration 更清晰
	RefreshExpireHours time.Duration `mapstructure:"refresh_expire_hours"`
	Issuer             string        `mapstructure:"issuer"`
}

// ShareConfig 分享相关配置
type ShareConfig struct {
	BaseURL          string        `mapstructure:"base_url"`           // 生成外链用的站点地址
	LinkExpiresIn    time.Duration `mapstructure:"link_expires_in"`    // 联系人外链有效期
	ScanFreshness    time.Duration `mapstructure:"scan_freshness"`     // 扫描结果有效窗口，默认 24h
	ScanMaxFileBytes int64         `mapstructure:"scan_max_file_bytes"` // 超过该大小的文件只扫描前缀
}

// zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

// ElasticsearchConfig 定义 Elasticsearch 连接配置
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

var AppConfig *Config // 全局应用配置实例

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")       // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")         // 配置文件类型
	viper.AddConfigPath(".")            // 在当前目录查找配置文件
	viper.AddConfigPath("./configs")    // 也可以添加其他路径，例如 ./configs/
	viper.AddConfigPath("/etc/gfiles/") // 生产环境常见路径

	// 读取环境变量，环境变量名将自动转换为大写，并用下划线替换点
	// 例如：SMTP.HOST 对应环境变量 GFILES_SMTP_HOST
	viper.SetEnvPrefix("GFILES")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值：合规窗口与分享链接有效期
	viper.SetDefault("share.scan_freshness", 24*time.Hour)
	viper.SetDefault("share.link_expires_in", 7*24*time.Hour)
	viper.SetDefault("share.scan_max_file_bytes", int64(4<<20))
	viper.SetDefault("erp.page_size", 200)
	viper.SetDefault("erp.timeout", 30*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件未找到，但这不是致命错误，因为我们可以依赖环境变量或默认值
			log.Println("Warning: config file not found, using environment variables or default values.")
		} else {
			// 其他读取错误，例如配置文件格式错误
			log.Fatalf("Fatal error reading config file: %s \n", err)
			return nil, err
		}
	}

	AppConfig = &Config{}
	if err := viper.Unmarshal(AppConfig); err != nil {
		log.Fatalf("Fatal error unmarshaling config: %s \n", err)
		return nil, err
	}

	log.Println("Configuration loaded successfully with Viper.")
	return AppConfig, nil
}
