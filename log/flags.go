package log

import "flag"

var (
	logLevelFlag string
	noColorFlag  bool
)

func init() {
	flag.StringVar(&logLevelFlag, "log", "info", "set log level to [trace|debug|info|warning|error|critical]")
	flag.BoolVar(&noColorFlag, "log-no-color", false, "disable colored log output")
}
