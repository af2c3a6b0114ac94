package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// settlementRunRequest optionally overrides the reference time of a daily
// job, mainly for backfills.
type settlementRunRequest struct {
	ReferenceTime *time.Time `json:"reference_time"`
}

func referenceTime(c *gin.Context) (time.Time, bool) {
	var req settlementRunRequest
	// Empty body means "now"
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	if req.ReferenceTime != nil {
		return *req.ReferenceTime, true
	}
	return time.Now().UTC(), true
}

// RunDailyMining triggers mining profit accrual for the previous UTC day.
// Safe to re-trigger; already-settled members are skipped.
func RunDailyMining(c *gin.Context) {
	ref, ok := referenceTime(c)
	if !ok {
		return
	}

	result, err := engine().RunDailyMiningProfit(ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunDailyTeamEarnings triggers the team override distribution for the
// previous business day. Re-running a processed day posts nothing.
func RunDailyTeamEarnings(c *gin.Context) {
	ref, ok := referenceTime(c)
	if !ok {
		return
	}

	result, err := engine().RunDailyTeamEarnings(ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
