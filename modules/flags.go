package modules

import "flag"

// HelpFlag triggers printing flag usage and a clean exit.
var HelpFlag bool

func init() {
	flag.BoolVar(&HelpFlag, "help", false, "print help")
}

func parseFlags() error {
	if !flag.Parsed() {
		flag.Parse()
	}

	if HelpFlag {
		flag.Usage()
		return ErrCleanExit
	}

	return nil
}
