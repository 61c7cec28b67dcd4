package config

import (
	"flag"
	"os"
)

var configFilePath string

func init() {
	flag.StringVar(&configFilePath, "config", "", "path to a json config file")
}

func loadConfigFile() error {
	// check if persistence is configured
	if configFilePath == "" {
		return nil
	}

	// read config file
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return err
	}

	return SetConfig(string(data))
}
