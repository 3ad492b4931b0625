package utils

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// This Config struct will hold all configuration variables of the application that we read from file,
// environment variables or command line flags.
type Config struct {
	//Viper uses the mapstructure package under the hood for unmarshaling values.
	Output      string `mapstructure:"OUTPUT"`
	PackageName string `mapstructure:"PACKAGE_NAME"`
	Part        string `mapstructure:"PART"`
	CatalogFile string `mapstructure:"CATALOG_FILE"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	ServerHost       string   `mapstructure:"SERVER_HOST"`
	ServerPort       int      `mapstructure:"SERVER_PORT"`
	AdditionalHosts  []string `mapstructure:"ADDITIONAL_HOSTS"`
	UserIds          []UserID `mapstructure:"USERIDS"`
	EnablePrometheus bool     `mapstructure:"ENABLE_PROMETHEUS"`
	MetricsAddr      string   `mapstructure:"METRICS_ADDR"`
}

// UserID is a user name identity accepted by the demo server.
type UserID struct {
	Username string `mapstructure:"USERNAME"`
	Password string `mapstructure:"PASSWORD"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"output":    "OUTPUT",
	"package":   "PACKAGE_NAME",
	"part":      "PART",
	"catalog":   "CATALOG_FILE",
	"log-level": "LOG_LEVEL",
	"host":      "SERVER_HOST",
	"port":      "SERVER_PORT",
	"metrics":   "ENABLE_PROMETHEUS",
}

func NewConfig(logger *zap.SugaredLogger, flags *pflag.FlagSet) *Config {
	cfg := &Config{}
	cfg.LoadConfig(logger, flags)
	return cfg
}

// LoadConfig reads configuration from file, environment variables or flags.
func (config *Config) LoadConfig(logger *zap.SugaredLogger, flags *pflag.FlagSet) {
	config.setDefaults()

	viper.AddConfigPath("./configs/")
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	// AutomaticEnv() automatically override values that it has read from config file with the values of
	// the corresponding environment variables if they exist.
	viper.SetEnvPrefix("UANODEGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					logger.Warnf("Failed to bind flag %s ❌ %v", name, err)
				}
			}
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug(Colorize("Config not found, using default values 🔧 ", Magenta), err.Error())
	} else {
		logger.Debug(Colorize("Config Found : Loading Config ⌛", Cyan))
	}

	if err := viper.Unmarshal(config); err != nil {
		// Panics if the tags on the fields of the structure are not properly set
		logger.Panic(Colorize("Failed to unmarshal Configs ❌", Magenta),
			Colorize(err.Error(), Magenta))
	}
}

// Set default values : setDefaults only used when no value is provided by the user via config, ENV or flags.
func (config *Config) setDefaults() {
	viper.SetDefault("OUTPUT", "-")
	viper.SetDefault("PACKAGE_NAME", "addressspace")
	viper.SetDefault("PART", "")
	viper.SetDefault("CATALOG_FILE", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", 46010)
	viper.SetDefault("ADDITIONAL_HOSTS", []string{})
	viper.SetDefault("USERIDS", []map[string]string{{"USERNAME": "root", "PASSWORD": "secret"}})
	viper.SetDefault("ENABLE_PROMETHEUS", false)
	viper.SetDefault("METRICS_ADDR", ":2112")
}
