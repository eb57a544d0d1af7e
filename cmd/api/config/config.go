package config

import "time"

type Config struct {
	HeartbeatTimeout    time.Duration
	SessionTimeout      time.Duration
	CreditResetInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		HeartbeatTimeout:    1 * time.Minute,
		SessionTimeout:      30 * time.Minute,
		CreditResetInterval: 1 * time.Hour,
	}
}
