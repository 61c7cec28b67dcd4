package harvester

import (
	"bytes"
	"strings"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/tickseed/tickseed/log"
)

var (
	roundsTotal        = vm.NewCounter("tickseed_rounds_total")
	rawBitsTotal       = vm.NewCounter("tickseed_raw_bits_total")
	discardedBitsTotal = vm.NewCounter("tickseed_discarded_bits_total")
	emittedBytesTotal  = vm.NewCounter("tickseed_emitted_bytes_total")
	seedBytesTotal     = vm.NewCounter("tickseed_seed_bytes_total")
	flushesTotal       = vm.NewCounter("tickseed_flushes_total")
)

// dumpMetrics logs the full metrics state in Prometheus exposition format.
func dumpMetrics() {
	buf := new(bytes.Buffer)
	vm.WritePrometheus(buf, false)

	for _, line := range strings.Split(buf.String(), "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			log.Tracef("harvester: metric %s", line)
		}
	}
}
