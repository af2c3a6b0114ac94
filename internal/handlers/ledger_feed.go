package handlers

import (
	"net/http"
	"time"

	"cryptomine/internal/models"
	dbconfig "cryptomine/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

var ledgerFeedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const ledgerFeedPollInterval = 2 * time.Second

// LedgerFeed streams newly appended ledger entries over a websocket. Each
// message is one Transaction as JSON, in id order starting from the moment
// of connection.
func LedgerFeed(c *gin.Context) {
	conn, err := ledgerFeedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("ledger feed upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Start from the current ledger head
	var lastID uint
	var head []models.Transaction
	if err := dbconfig.DB.Order("id desc").Limit(1).Find(&head).Error; err != nil {
		logger.Errorf("ledger feed head lookup failed: %v", err)
		return
	}
	if len(head) > 0 {
		lastID = head[0].ID
	}

	// Drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(ledgerFeedPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		var entries []models.Transaction
		if err := dbconfig.DB.Where("id > ?", lastID).Order("id").
			Limit(200).Find(&entries).Error; err != nil {
			logger.Errorf("ledger feed query failed: %v", err)
			return
		}

		for _, entry := range entries {
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
			lastID = entry.ID
		}
	}
}
