package config

import (
	"time"

	"github.com/spf13/viper"
)

type Watcher struct {
	// Identity used as the caller of releases triggered after the release time
	Identity string

	// How often to look for escrows past their release time
	Interval time.Duration

	// Num of workers releasing escrows
	MaxWorkers int

	// Max num of releases per second, 0 is no limit
	MaxReleasesPerSecond int

	// How long an escrow is skipped after a failed release
	FailureCooldown time.Duration

	// Time limit for a single release
	ReleaseTimeout time.Duration
}

func setWatcherDefaults() {
	viper.SetDefault("Watcher.Identity", "watcher")
	viper.SetDefault("Watcher.Interval", "30s")
	viper.SetDefault("Watcher.MaxWorkers", "5")
	viper.SetDefault("Watcher.MaxReleasesPerSecond", "20")
	viper.SetDefault("Watcher.FailureCooldown", "5m")
	viper.SetDefault("Watcher.ReleaseTimeout", "15s")
}
