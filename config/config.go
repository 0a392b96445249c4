package config

import (
	"os"
	"path/filepath"

	"github.com/opencampus/wolfcafe/pkg/common"
	"gopkg.in/yaml.v2"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig holds the REST listener settings.
type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "WolfCafe",
		Location: "America/New_York",
		Workdir:  "/var/wolfcafe",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1899,
		JwtSecret: "9b6de5cc-0001-cafe-0001-af7f6b1d0bc6",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "wolfcafe_v1",
		User:     "postgres",
		Passwd:   "root",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/wolfcafe/wolfcafe.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	defaults := *DefaultAppConfig
	cfg := &defaults
	if common.FileExists(cfile) {
		if data, err := os.ReadFile(cfile); err == nil {
			loaded := new(AppConfig)
			if err := yaml.Unmarshal(data, loaded); err == nil {
				cfg = loaded
			}
		}
	}

	setEnvValue("WOLFCAFE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("WOLFCAFE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("WOLFCAFE_DB_HOST", &cfg.Database.Host)
	setEnvValue("WOLFCAFE_DB_NAME", &cfg.Database.Name)
	setEnvValue("WOLFCAFE_DB_USER", &cfg.Database.User)
	setEnvValue("WOLFCAFE_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("WOLFCAFE_DB_TYPE", &cfg.Database.Type)

	setEnvValue("WOLFCAFE_WEB_HOST", &cfg.Web.Host)
	setEnvValue("WOLFCAFE_WEB_JWT_SECRET", &cfg.Web.JwtSecret)

	setEnvValue("WOLFCAFE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("WOLFCAFE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	return cfg
}

// InitDirs creates the working directories used for logs and metrics.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
}
