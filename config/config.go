package config

import (
	"os"
	"path"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	Secret       string   `yaml:"secret"`
	JwtExpire    int      `yaml:"jwt_expire"` // minutes
	AllowOrigins []string `yaml:"allow_origins"`
}

type DBConfig struct {
	Type    string `yaml:"type"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	User    string `yaml:"user"`
	Passwd  string `yaml:"passwd"`
	MaxConn int    `yaml:"max_conn"`
	Debug   bool   `yaml:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type SmtpConfig struct {
	Enable   bool   `yaml:"enable"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LoggerConfig `yaml:"logger"`
	Smtp     SmtpConfig   `yaml:"smtp"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "coffeehub",
			Location: "Asia/Jakarta",
			Workdir:  "/var/coffeehub",
			Debug:    true,
		},
		Web: WebConfig{
			Host:      "0.0.0.0",
			Port:      8000,
			Secret:    "9b6de5cc-coffeehub-1f24-secret",
			JwtExpire: 60,
			AllowOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Database: DBConfig{
			Type:    "postgres",
			Host:    "127.0.0.1",
			Port:    5432,
			Name:    "coffeehub",
			User:    "postgres",
			Passwd:  "",
			MaxConn: 100,
			Debug:   false,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: true,
			Filename:   "coffeehub.log",
		},
		Smtp: SmtpConfig{
			Enable: false,
			Host:   "localhost",
			Port:   25,
			From:   "no-reply@coffeehub.local",
		},
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file is not an error, the defaults are used.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvString("COFFEEHUB_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("COFFEEHUB_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvString("COFFEEHUB_WEB_HOST", &cfg.Web.Host)
	setEnvInt("COFFEEHUB_WEB_PORT", &cfg.Web.Port)
	setEnvString("COFFEEHUB_WEB_SECRET", &cfg.Web.Secret)
	setEnvInt("COFFEEHUB_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)
	setEnvString("COFFEEHUB_DB_TYPE", &cfg.Database.Type)
	setEnvString("COFFEEHUB_DB_HOST", &cfg.Database.Host)
	setEnvInt("COFFEEHUB_DB_PORT", &cfg.Database.Port)
	setEnvString("COFFEEHUB_DB_NAME", &cfg.Database.Name)
	setEnvString("COFFEEHUB_DB_USER", &cfg.Database.User)
	setEnvString("COFFEEHUB_DB_PWD", &cfg.Database.Passwd)
	setEnvString("COFFEEHUB_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("COFFEEHUB_SMTP_ENABLE", &cfg.Smtp.Enable)
	setEnvString("COFFEEHUB_SMTP_HOST", &cfg.Smtp.Host)
	setEnvInt("COFFEEHUB_SMTP_PORT", &cfg.Smtp.Port)
	setEnvString("COFFEEHUB_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvString("COFFEEHUB_SMTP_PASSWORD", &cfg.Smtp.Password)

	if !path.IsAbs(cfg.Logger.Filename) {
		cfg.Logger.Filename = path.Join(cfg.System.Workdir, cfg.Logger.Filename)
	}
	return cfg
}

func setEnvString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setEnvInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToInt(v)
	}
}

func setEnvBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToBool(v)
	}
}
