package main

import (
	"os"

	"github.com/tickseed/tickseed/info"
	"github.com/tickseed/tickseed/run"

	_ "github.com/tickseed/tickseed/harvester"
	_ "github.com/tickseed/tickseed/rng"
)

func main() {
	// Set Info
	info.Set("tickseed", "0.4.0", "GPLv3")

	// Run
	os.Exit(run.Run())
}
