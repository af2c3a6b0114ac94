package config

import (
	"os"
	"strconv"
)

// Settings carries the read-only settlement configuration: activation
// threshold, bonus percentages, mining rate, ROI cap and lock window. The
// engine never mutates these values.
type Settings struct {
	// ActivationThreshold is the lifetime deposit total at which a user
	// becomes eligible for full bonus tiers.
	ActivationThreshold float64
	// SelfBonusPct is paid to the depositor when active after the deposit.
	SelfBonusPct float64
	// L1BonusPct is paid to the direct sponsor on every deposit.
	L1BonusPct float64
	// L2BonusPct is paid to the sponsor's sponsor when the depositor is
	// active after the deposit.
	L2BonusPct float64
	// DefaultMiningRatePct is the daily profit rate applied when the user
	// carries no per-user override.
	DefaultMiningRatePct float64
	// RoiCapMultiplier caps lifetime mining earnings at this multiple of
	// lifetime deposits.
	RoiCapMultiplier float64
	// TeamOverridePct is the override reward paid on a member's daily
	// profit to each of the team A and team B sponsors.
	TeamOverridePct float64
	// LockWindowDays is the length of a new locked-capital lot.
	LockWindowDays int
	// BusinessDayOffsetHours is the fixed offset of the regional business
	// day used by team earnings (mining accrual stays on pure UTC days).
	BusinessDayOffsetHours int
}

// LoadSettings resolves settlement settings from the environment with
// stable defaults.
func LoadSettings() Settings {
	return Settings{
		ActivationThreshold:    envFloat("ACTIVATION_THRESHOLD", 80),
		SelfBonusPct:           envFloat("SELF_BONUS_PCT", 5),
		L1BonusPct:             envFloat("L1_BONUS_PCT", 10),
		L2BonusPct:             envFloat("L2_BONUS_PCT", 2),
		DefaultMiningRatePct:   envFloat("DEFAULT_MINING_RATE_PCT", 1.5),
		RoiCapMultiplier:       envFloat("ROI_CAP_MULTIPLIER", 3),
		TeamOverridePct:        envFloat("TEAM_OVERRIDE_PCT", 10),
		LockWindowDays:         envInt("LOCK_WINDOW_DAYS", 30),
		BusinessDayOffsetHours: envInt("BUSINESS_DAY_OFFSET_HOURS", 5),
	}
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
