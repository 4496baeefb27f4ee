package configuration

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vallemarketing/valle360-social/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	OAuth       OAuth       `json:"oauth"`
	Publish     Publish     `json:"publish"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// OAuth holds third-party platform OAuth client credentials plus the UI
// surface that callbacks redirect back to.
type OAuth struct {
	ReturnURL string      `json:"returnURL"`
	Facebook  OAuthClient `json:"facebook"`
	Instagram OAuthClient `json:"instagram"`
	LinkedIn  OAuthClient `json:"linkedin"`
	Google    OAuthClient `json:"google"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

// Publish tunes the orchestrator fan-out.
type Publish struct {
	// WorkerLimit bounds concurrent per-target publishes. 0 falls back to 4.
	WorkerLimit int `json:"workerLimit"`
	// ProviderTimeoutSeconds bounds each outbound provider call. 0 falls back to 30.
	ProviderTimeoutSeconds int `json:"providerTimeoutSeconds"`
	// SchedulerIntervalSeconds is the due-post sweep period. 0 disables the
	// background processor.
	SchedulerIntervalSeconds int `json:"schedulerIntervalSeconds"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initOAuth(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication and OAuth state signing will fail. Provide SECRET_KEY via environment.")
	}
}

func initOAuth(C *Config) {
	envOverride := func(c *OAuthClient, prefix string) {
		if v := os.Getenv(prefix + "_CLIENT_ID"); v != "" {
			c.ClientID = v
		}
		if v := os.Getenv(prefix + "_CLIENT_SECRET"); v != "" {
			c.ClientSecret = v
		}
		if v := os.Getenv(prefix + "_REDIRECT_URI"); v != "" {
			c.RedirectURI = v
		}
	}
	envOverride(&C.OAuth.Facebook, "FACEBOOK")
	envOverride(&C.OAuth.Instagram, "INSTAGRAM")
	envOverride(&C.OAuth.LinkedIn, "LINKEDIN")
	envOverride(&C.OAuth.Google, "GOOGLE")
	if v := os.Getenv("OAUTH_RETURN_URL"); v != "" {
		C.OAuth.ReturnURL = v
	}
	if C.OAuth.ReturnURL == "" {
		C.OAuth.ReturnURL = "http://localhost:4200/settings/integrations"
	}
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled {
		for _, c := range []*OAuthClient{&C.OAuth.Facebook, &C.OAuth.Instagram, &C.OAuth.LinkedIn, &C.OAuth.Google} {
			if c.RedirectURI != "" && !hasHTTPS(c.RedirectURI) {
				c.RedirectURI = toHTTPSCallback(c.RedirectURI)
			}
		}
	}
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return len(u) >= 8 && u[:8] == "https://" }
func toHTTPSCallback(u string) string {
	if len(u) >= 7 && u[:7] == "http://" {
		return "https://" + u[7:]
	}
	return u
}
