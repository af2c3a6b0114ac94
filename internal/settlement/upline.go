package settlement

import (
	"fmt"

	"cryptomine/internal/models"
)

// uplineCache memoizes user lookups for one settlement run. It is owned by
// the invocation that created it, never shared across runs, so concurrent
// batches cannot cross-contaminate. Negative results are cached too.
type uplineCache struct {
	users map[uint]*models.User
}

func newUplineCache() *uplineCache {
	return &uplineCache{users: make(map[uint]*models.User)}
}

func (e *Engine) cachedUser(c *uplineCache, id uint) (*models.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}

	var users []models.User
	if err := e.db.Where("id = ?", id).Limit(1).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}

	if len(users) == 0 {
		c.users[id] = nil
		return nil, nil
	}
	c.users[id] = &users[0]
	return &users[0], nil
}

// resolveUpline returns the level-1 and level-2 sponsors of userID. Either
// may be nil; a nil level means no payout is owed at that level, never an
// error. Dangling sponsor references resolve to nil.
func (e *Engine) resolveUpline(c *uplineCache, userID uint) (*models.User, *models.User, error) {
	user, err := e.cachedUser(c, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.ReferredBy == nil {
		return nil, nil, nil
	}

	l1, err := e.cachedUser(c, *user.ReferredBy)
	if err != nil {
		return nil, nil, err
	}
	if l1 == nil || l1.ReferredBy == nil {
		return l1, nil, nil
	}

	l2, err := e.cachedUser(c, *l1.ReferredBy)
	if err != nil {
		return l1, nil, err
	}
	return l1, l2, nil
}
