package main

import (
	"encoding/json"
	"log"

	"cryptomine/internal/settlement"
	"cryptomine/pkg/config"
	"cryptomine/pkg/utils"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	engine := settlement.NewEngine(config.DB, config.LoadSettings())

	// Create consumer for the deposit approval queue
	msgConsumer, err := config.NewConsumer(config.QueueDepositApproved)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Deposit Settlement Worker started, waiting for messages...")

	// Start consuming messages
	err = msgConsumer.Consume(func(msg []byte) error {
		// Delivery is at-least-once; the settlement engine makes
		// duplicates harmless
		var approval config.DepositApprovedMessage
		if err := json.Unmarshal(msg, &approval); err != nil {
			logrus.Errorf("Failed to unmarshal message: %v", err)
			// Malformed payloads never become valid; drop instead of requeue
			return nil
		}

		userID, ok := utils.NormalizeID(approval.UserID)
		if !ok {
			logrus.Errorf("Invalid user_id in message: %v", approval.UserID)
			return nil
		}

		ref := settlement.DepositEventRef{ID: approval.EventRef}
		if approval.EventTime != nil {
			ref.Timestamp = *approval.EventTime
		}

		outcome, err := engine.ApproveDeposit(userID, approval.Amount, ref)
		if err != nil {
			if settlement.IsValidation(err) {
				logrus.Errorf("Rejected deposit event %s: %v", approval.EventRef, err)
				return nil
			}
			// Transient store failure: requeue, idempotency makes the
			// retry safe
			logrus.Errorf("Failed to settle deposit event %s: %v", approval.EventRef, err)
			return err
		}

		logrus.WithFields(logrus.Fields{
			"event_ref":          approval.EventRef,
			"user_id":            userID,
			"principal_credited": outcome.PrincipalCredited,
			"depositor_active":   outcome.DepositorActive,
			"self_bonus":         outcome.SelfBonus,
			"l1_bonus":           outcome.L1Bonus,
			"l2_bonus":           outcome.L2Bonus,
		}).Info("Deposit event settled")
		return nil
	})

	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}
