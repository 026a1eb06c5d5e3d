package config

import "time"

// ThrottleConfig controls the per-address token bucket applied to the login
// endpoint. Failed logins are the only brute-forceable surface; everything
// else requires a valid token already.
type ThrottleConfig struct {
	Enabled        bool
	Capacity       int           // bucket size (burst)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // refill cadence
	TTL            time.Duration // redis key expiry
	Prefix         string        // redis key prefix
}

// LoadThrottleConfig reads the throttle settings from the environment and
// clamps them to sane minimums.
func LoadThrottleConfig() ThrottleConfig {
	cfg := ThrottleConfig{
		Enabled:        envBool("LOGIN_THROTTLE_ENABLED", true),
		Capacity:       envInt("LOGIN_THROTTLE_CAPACITY", 10),
		RefillTokens:   envInt("LOGIN_THROTTLE_REFILL_TOKENS", 1),
		RefillInterval: envDur("LOGIN_THROTTLE_REFILL_INTERVAL", 3*time.Second),
		TTL:            envDur("LOGIN_THROTTLE_TTL", 10*time.Minute),
		Prefix:         envStr("LOGIN_THROTTLE_PREFIX", "login"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
