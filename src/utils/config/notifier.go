package config

import (
	"github.com/spf13/viper"
)

type Notifier struct {
	// Publish events to Redis. Events are only logged otherwise
	Enabled bool

	// Redis channel events are published to
	ChannelName string

	// Events buffered before new ones get dropped
	BufferSize int
}

func setNotifierDefaults() {
	viper.SetDefault("Notifier.Enabled", "false")
	viper.SetDefault("Notifier.ChannelName", "escrow")
	viper.SetDefault("Notifier.BufferSize", "1000")
}
