package handlers

import (
	"net/http"
	"time"

	"cryptomine/internal/settlement"
	dbconfig "cryptomine/pkg/config"
	"cryptomine/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ApproveDepositRequest is posted by the deposit approval workflow. UserID
// accepts any id representation that NormalizeID understands. The contract
// tolerates duplicate posts for the same event_ref.
type ApproveDepositRequest struct {
	UserID    interface{} `json:"user_id" binding:"required"`
	Amount    float64     `json:"amount" binding:"required"`
	EventRef  string      `json:"event_ref" binding:"required"`
	EventTime *time.Time  `json:"event_time"`
	Async     bool        `json:"async"`
}

// ApproveDeposit settles an approved deposit, or enqueues it when async
// delivery is requested and the queue is configured.
func ApproveDeposit(c *gin.Context) {
	var req ApproveDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := utils.NormalizeID(req.UserID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	ref := settlement.DepositEventRef{ID: req.EventRef}
	if req.EventTime != nil {
		ref.Timestamp = *req.EventTime
	}

	if req.Async && dbconfig.RabbitMQ != nil {
		publisher, err := dbconfig.NewPublisher()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer publisher.Close()

		msg := dbconfig.DepositApprovedMessage{
			UserID:    userID,
			Amount:    req.Amount,
			EventRef:  req.EventRef,
			EventTime: req.EventTime,
		}
		if err := publisher.PublishDepositApproved(msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true, "event_ref": req.EventRef})
		return
	}

	outcome, err := engine().ApproveDeposit(userID, req.Amount, ref)
	if err != nil {
		if settlement.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
