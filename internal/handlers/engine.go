package handlers

import (
	"sync"

	"cryptomine/internal/settlement"
	dbconfig "cryptomine/pkg/config"
)

var (
	engineOnce sync.Once
	eng        *settlement.Engine
)

// engine returns the process-wide settlement engine, built lazily from the
// initialized database handle and environment settings.
func engine() *settlement.Engine {
	engineOnce.Do(func() {
		eng = settlement.NewEngine(dbconfig.DB, dbconfig.LoadSettings())
	})
	return eng
}
