package settlement

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// miningDay resolves the UTC calendar day immediately preceding ref.
// Mining accrual settles strictly by UTC day.
func miningDay(ref time.Time) (string, time.Time) {
	prev := ref.UTC().AddDate(0, 0, -1)
	dayStart := time.Date(prev.Year(), prev.Month(), prev.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart.Format(dayLayout), dayStart
}

// businessDayWindow resolves the previous business day relative to ref
// under a fixed regional UTC offset, returning its label and UTC bounds
// [start, end). Team earnings settle by this window, not by UTC day; the
// two conventions are intentionally distinct.
func businessDayWindow(ref time.Time, offsetHours int) (string, time.Time, time.Time) {
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
	local := ref.In(zone)
	todayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	prevStart := todayStart.AddDate(0, 0, -1)
	return prevStart.Format(dayLayout), prevStart.UTC(), todayStart.UTC()
}
