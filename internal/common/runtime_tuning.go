package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles for different server configurations. Quoting allocates
// many short-lived decimals, so GC is relaxed and bounded by a memory limit.
const (
	SmallServerGOGC     = 200
	SmallServerMemLimit = 1 * 1024 * 1024 * 1024

	MediumServerGOGC     = 400
	MediumServerMemLimit = 4 * 1024 * 1024 * 1024

	LargeServerGOGC     = 800
	LargeServerMemLimit = 8 * 1024 * 1024 * 1024
)

func detectServerProfile() (gogc int, memLimit int64) {
	switch cpu := runtime.NumCPU(); {
	case cpu <= 2:
		return SmallServerGOGC, SmallServerMemLimit
	case cpu <= 8:
		return MediumServerGOGC, MediumServerMemLimit
	default:
		return LargeServerGOGC, LargeServerMemLimit
	}
}

// InitRuntime applies the detected profile unless GOGC or GOMEMLIMIT are
// set in the environment.
func InitRuntime() {
	gogc, memLimit := detectServerProfile()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
		log.Info().Int("GOGC", gogc).Msg("[runtime] set GOGC")
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", memLimit).
			Float64("GOMEMLIMIT_GB", float64(memLimit)/1024/1024/1024).
			Msg("[runtime] set memory limit")
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Str("go_version", runtime.Version()).
		Msg("[runtime] current runtime settings")
}
