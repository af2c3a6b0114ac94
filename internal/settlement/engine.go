package settlement

import (
	"cryptomine/pkg/config"

	"gorm.io/gorm"
)

// Engine runs every settlement path: deposit rewards, daily mining accrual,
// team earnings distribution, claims and lockup math. It owns nothing
// global; the database handle and settings are injected once at startup so
// concurrent runs (including backfills) share no mutable state.
type Engine struct {
	db  *gorm.DB
	cfg config.Settings
}

func NewEngine(db *gorm.DB, cfg config.Settings) *Engine {
	return &Engine{db: db, cfg: cfg}
}

// Settings returns the read-only settlement configuration.
func (e *Engine) Settings() config.Settings {
	return e.cfg
}

// DB exposes the underlying handle for read paths (wallet snapshots,
// ledger listings).
func (e *Engine) DB() *gorm.DB {
	return e.db
}
