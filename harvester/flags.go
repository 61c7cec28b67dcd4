package harvester

import (
	"flag"

	"github.com/tickseed/tickseed/config"
)

var (
	bytesFlag    int
	secondsFlag  int
	intervalFlag int
	noDebiasFlag bool
	hashFlag     string
	cipherFlag   string
)

func init() {
	flag.IntVar(&bytesFlag, "bytes", 0, "number of random bytes to produce (0 = unbounded)")
	flag.IntVar(&secondsFlag, "seconds", 0, "number of seconds to harvest for (0 = unbounded)")
	flag.IntVar(&intervalFlag, "interval", 0, "pin the timer interval in microseconds (0 = adaptive)")
	flag.BoolVar(&noDebiasFlag, "no-debias", false, "disable Von Neumann debiasing")
	flag.StringVar(&hashFlag, "hash", "", "whitening hash: sha256, sha1 or off")
	flag.StringVar(&cipherFlag, "cipher", "", "whitening cipher: aes, serpent or off")
}

// applyFlags copies explicitly passed CLI flags into the user config layer,
// overriding any config file values.
func applyFlags() (err error) {
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "bytes":
			err = config.SetConfigOption("harvester.bytes", bytesFlag)
		case "seconds":
			err = config.SetConfigOption("harvester.seconds", secondsFlag)
		case "interval":
			err = config.SetConfigOption("harvester.interval_usec", intervalFlag)
		case "no-debias":
			err = config.SetConfigOption("harvester.debias", !noDebiasFlag)
		case "hash":
			err = config.SetConfigOption("harvester.hash", hashFlag)
		case "cipher":
			err = config.SetConfigOption("harvester.cipher", cipherFlag)
		}
	})
	return err
}
