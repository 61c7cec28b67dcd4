package config

import (
	"os"

	"github.com/tickseed/tickseed/modules"
)

func init() {
	modules.Register("config", nil, start, nil)
}

func start() error {
	err := loadConfigFile()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
