package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dynamo-metrics-digest/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logsDir", ".")
	v.SetDefault("dataDir", "./data")
	v.SetDefault("table", "")
	v.SetDefault("samplePrefix", "dynamo_metrics_logs_")
	v.SetDefault("metadataFile", "table_detailed.log")
	v.SetDefault("serverPort", 8041)
	v.SetDefault("uiDir", "ui/build")
	v.SetDefault("debug", false)
}

// Load builds the configuration from defaults, an optional config file, and
// the command's flags, in rising precedence. A config file named explicitly
// must exist; the implicit ./config.yaml lookup may come up empty.
func Load(configFile string, flags *pflag.FlagSet) (*types.Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %v", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &types.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return cfg, nil
}

// bindFlags overlays command-line flags on top of the config file values.
// Only flags that were actually set take effect.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"logsDir":      "folder",
		"dataDir":      "data",
		"table":        "table",
		"samplePrefix": "samplePrefix",
		"metadataFile": "metadataFile",
		"serverPort":   "serverPort",
		"uiDir":        "ui",
		"debug":        "debug",
	}

	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %v", name, err)
		}
	}

	return nil
}
