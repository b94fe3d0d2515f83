package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"news-reporter/internal/config"
	"news-reporter/internal/logger"
)

var (
	cfgFile  string
	logLevel string
	appCfg   config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "news-reporter",
	Short:        "Automated news reports",
	Long:         "Search news for a topic, publish a formatted report and notify about it, now or on a daily schedule.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level (debug|info|warn|error)")
}

// legacyEnv maps config keys to the plain environment names used by
// existing deployments' .env files.
var legacyEnv = map[string]string{
	"newsapi.api_key":    "NEWS_API_KEY",
	"notion.token":       "NOTION_TOKEN",
	"notion.database_id": "NOTION_DATABASE_ID",
	"openai.api_key":     "OPENAI_API_KEY",
	"smtp.server":        "SMTP_SERVER",
	"smtp.port":          "SMTP_PORT",
	"smtp.user":          "SMTP_USER",
	"smtp.password":      "SMTP_PASSWORD",
	"smtp.recipient":     "NOTIFICATION_EMAIL",
	"chat.webhook_url":   "SLACK_WEBHOOK",
	"redis.addr":         "REDIS_ADDR",
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error reading .env: %v\n", err)
	}

	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/news-reporter")
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix("NEWS_REPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "NEWS_REPORTER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	if logLevel != "" {
		appCfg.App.LogLevel = logLevel
	}
	logger.Setup(appCfg.App.LogLevel)
	if err := appCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
