package main

import (
	"os"
	"time"

	"cryptomine/internal/settlement"
	dbconfig "cryptomine/pkg/config"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

// RunMiningAccrual settles the previous UTC day's mining profit.
func RunMiningAccrual(engine *settlement.Engine) error {
	logger.Info("> starting daily mining accrual")

	result, err := engine.RunDailyMiningProfit(time.Now().UTC())
	if err != nil {
		logger.Errorf("> mining accrual failed: %v", err)
		return err
	}

	logger.Infof("> mining accrual done for %s: created=%d skipped=%d failed=%d total=%.4f",
		result.Day, result.Created, result.Skipped, result.Failed, result.TotalAmount)
	return nil
}

// RunTeamEarnings distributes the previous business day's team overrides.
func RunTeamEarnings(engine *settlement.Engine) error {
	logger.Info("> starting daily team earnings distribution")

	result, err := engine.RunDailyTeamEarnings(time.Now().UTC())
	if err != nil {
		logger.Errorf("> team earnings distribution failed: %v", err)
		return err
	}

	logger.Infof("> team earnings done for %s: posted=%d receivers=%d missing_upline=%d total=%.2f",
		result.Day, result.PostedCount, result.UniqueReceivers, result.MissingUpline, result.TotalReward)
	return nil
}

func main() {
	// Log to file
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/daily_settlement.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("cannot open log file, logging to stdout")
	}

	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	logger.Info("> initializing daily settlement scheduler...")

	if err := godotenv.Load(); err != nil {
		logger.Info("> no .env file found, using system environment variables")
	}

	// Initialize database connection
	dbconfig.InitDB()
	logger.Info("> database connection initialized")

	engine := settlement.NewEngine(dbconfig.DB, dbconfig.LoadSettings())

	c := cron.New(cron.WithSeconds())

	// Mining accrual shortly after UTC midnight
	_, err = c.AddFunc("0 10 0 * * *", func() {
		if err := RunMiningAccrual(engine); err != nil {
			logger.Errorf("> scheduled mining accrual failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> failed to register mining accrual job: %v", err)
	}

	// Team earnings after the accrual window has settled
	_, err = c.AddFunc("0 0 1 * * *", func() {
		if err := RunTeamEarnings(engine); err != nil {
			logger.Errorf("> scheduled team earnings failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> failed to register team earnings job: %v", err)
	}

	logger.Info("> daily settlement jobs scheduled")

	c.Start()

	// Keep the scheduler running
	select {}
}
