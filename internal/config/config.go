package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/shift"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Env      string         `mapstructure:"env"` // 环境: development, production
	Database DatabaseConfig `mapstructure:"database"`
	Data     DataConfig     `mapstructure:"data"`
	Shift    ShiftConfig    `mapstructure:"shift"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig 数据库配置
// driver 为 sqlite 时仅使用 path,为 postgres 时使用连接参数
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite, postgres
	Path            string `mapstructure:"path"`   // sqlite 数据库文件路径
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 秒
}

// DataConfig 参考数据配置
type DataConfig struct {
	Dir string `mapstructure:"dir"` // 参考数据 JSON 文件目录
}

// ShiftConfig 班次窗口配置,24 小时制 "HH:MM",夜班允许跨午夜
type ShiftConfig struct {
	DayStart   string `mapstructure:"day_start"`
	DayEnd     string `mapstructure:"day_end"`
	NightStart string `mapstructure:"night_start"`
	NightEnd   string `mapstructure:"night_end"`
}

// Windows 转换为班次窗口值对象
func (c ShiftConfig) Windows() shift.Windows {
	return shift.Windows{
		DayStart:   c.DayStart,
		DayEnd:     c.DayEnd,
		NightStart: c.NightStart,
		NightEnd:   c.NightEnd,
	}
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error
	Format string `mapstructure:"format"` // 日志格式: json, text
	Output string `mapstructure:"output"` // 输出位置: stdout, file, both
	File   string `mapstructure:"file"`   // 日志文件路径
}

// Load 加载配置,支持配置文件和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果提供了配置文件路径,从文件加载
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// 尝试从默认位置加载
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.porter-track")
		// 忽略配置文件不存在的错误,使用默认值
		_ = v.ReadInConfig()
	}

	// 支持环境变量
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Shift.Windows().Validate(); err != nil {
		return nil, fmt.Errorf("invalid shift config: %w", err)
	}

	return &cfg, nil
}

// IsProduction 判断是否为生产环境
func IsProduction(cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Env == "production"
}

// Default 返回默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 环境变量
	env := v.GetString("env")
	if env == "" {
		env = os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}
	}
	v.SetDefault("env", env)

	// 数据库默认配置: 本地单操作员场景默认用 sqlite 文件
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "porter-track.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "porter")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.conn_max_idle_time", 600)

	// 参考数据默认配置
	v.SetDefault("data.dir", "data")

	// 班次窗口默认配置: 白班 08:00-20:00,夜班跨午夜
	v.SetDefault("shift.day_start", "08:00")
	v.SetDefault("shift.day_end", "20:00")
	v.SetDefault("shift.night_start", "20:00")
	v.SetDefault("shift.night_end", "08:00")

	// 日志配置（根据环境设置默认值）
	if env == "production" {
		v.SetDefault("log.level", "warn")
		v.SetDefault("log.format", "json")
	} else {
		v.SetDefault("log.level", "debug")
		v.SetDefault("log.format", "text")
	}
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/porter-track.log")
}
