package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	AIConfig struct {
		APIKey          string
		Model           string
		Timeout         time.Duration
		MaxOutputTokens int
	}

	SearchConfig struct {
		GoogleAPIKey      string
		GoogleCxID        string
		YouTubeAPIKey     string
		UnsplashAccessKey string
	}

	MediaConfig struct {
		Root               string
		AudioRetention     time.Duration
		AudioPruneSchedule string // cron spec
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (local; default), TEST, QA, PROD
		Build    string
		AppName  string

		SecretKey       []byte
		WorkDir         string
		FrontendBaseURL string

		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		PasswordResetTimeoutDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		AI       AIConfig
		Search   SearchConfig
		Media    MediaConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig builds the app Config from defaults, an optional config/.env.<env>
// file and environment variables (prefixed with the current ENV).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	wd := Getwd()

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Elimu")
	v.SetDefault("secretKey", "h8&0-t$do5aruq$+13=vw&yamj2(d!p)#*x2(#gy4u^$iesm9abc")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "elimu")
	v.SetDefault("databaseUser", "")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("aiApiKey", "")
	v.SetDefault("aiModel", "gemini-2.5-flash")
	v.SetDefault("aiTimeout", 60*time.Second)
	v.SetDefault("aiMaxOutputTokens", 4096)

	v.SetDefault("googleApiKey", "")
	v.SetDefault("googleCxID", "")
	v.SetDefault("youtubeApiKey", "")
	v.SetDefault("unsplashAccessKey", "")

	v.SetDefault("mediaRoot", filepath.Join(wd, "media"))
	v.SetDefault("mediaAudioRetention", 7*24*time.Hour)
	v.SetDefault("mediaAudioPruneSchedule", "@hourly")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),

		SecretKey:       []byte(v.GetString("secretKey")),
		WorkDir:         wd,
		FrontendBaseURL: v.GetString("frontendBaseURL"),

		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),

		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),

		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Addr:                      v.GetString("serverAddr"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		AI: AIConfig{
			APIKey:          v.GetString("aiApiKey"),
			Model:           v.GetString("aiModel"),
			Timeout:         v.GetDuration("aiTimeout"),
			MaxOutputTokens: v.GetInt("aiMaxOutputTokens"),
		},
		Search: SearchConfig{
			GoogleAPIKey:      v.GetString("googleApiKey"),
			GoogleCxID:        v.GetString("googleCxID"),
			YouTubeAPIKey:     v.GetString("youtubeApiKey"),
			UnsplashAccessKey: v.GetString("unsplashAccessKey"),
		},
		Media: MediaConfig{
			Root:               v.GetString("mediaRoot"),
			AudioRetention:     v.GetDuration("mediaAudioRetention"),
			AudioPruneSchedule: v.GetString("mediaAudioPruneSchedule"),
		},
	}
}
