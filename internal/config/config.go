package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Auth     AuthConfig     `toml:"auth"`
	Forecast ForecastConfig `toml:"forecast"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int      `toml:"port"`
	DevMode     bool     `toml:"dev_mode"`
	CORSOrigins []string `toml:"cors_origins"` // 前端地址白名单
	FrontendURL string   `toml:"frontend_url"` // OAuth 回调后重定向地址
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// AuthConfig 认证配置
// 密钥类配置不写入 config.toml，统一从环境变量（.env）读取
type AuthConfig struct {
	JWTSecret          string `toml:"-"`
	TokenExpireMinutes int    `toml:"token_expire_minutes"`
	GoogleClientID     string `toml:"-"`
	GoogleClientSecret string `toml:"-"`
	GoogleRedirectURL  string `toml:"google_redirect_url"`
}

// ForecastConfig 预测配置
type ForecastConfig struct {
	Engine          string `toml:"engine"`           // forecaster/naive
	DefaultHorizon  int    `toml:"default_horizon"`  // 默认预测期数
	MinObservations int    `toml:"min_observations"` // 预测所需最少观测数
	DateColumn      string `toml:"date_column"`
	ProductColumn   string `toml:"product_column"`
	ValueColumn     string `toml:"value_column"`
	PriceColumn     string `toml:"price_column"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20270,
			DevMode: false,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
			FrontendURL: "http://localhost:5173",
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Auth: AuthConfig{
			TokenExpireMinutes: 30,
		},
		Forecast: ForecastConfig{
			Engine:          "forecaster",
			DefaultHorizon:  30,
			MinObservations: 30,
			DateColumn:      "date",
			ProductColumn:   "product_id",
			ValueColumn:     "units_sold",
			PriceColumn:     "price",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	// .env 可选，存放密钥类配置
	_ = godotenv.Load(filepath.Join(exeDir, ".env"))

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)

	return config, info, nil
}

// applyEnv 环境变量覆盖（密钥与部署相关配置）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.Auth.JWTSecret = v
	}
	if config.Auth.JWTSecret == "" {
		// 本地调试用缺省值，生产环境必须通过环境变量注入
		config.Auth.JWTSecret = "a_very_secret_key_change_this"
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		config.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		config.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("ORACLE_FRONTEND_URL"); v != "" {
		config.Server.FrontendURL = v
	}
	if v := os.Getenv("ORACLE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			config.Server.Port = p
		}
	}
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径基于可执行文件所在目录
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, _ := GetExeDir()
		if exeDir == "" {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	return filepath.Join(dataDir, subdir, filename)
}
