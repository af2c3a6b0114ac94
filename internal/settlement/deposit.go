package settlement

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cryptomine/internal/models"
	"cryptomine/pkg/utils"

	"gorm.io/gorm"
)

// DepositEventRef identifies one approved deposit. ID is the approval
// workflow's stable transaction id; every idempotency key for the event is
// derived from it.
type DepositEventRef struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// RewardOutcome reports what one deposit approval settled. On a duplicate
// invocation every amount is zero and PrincipalCredited is false.
type RewardOutcome struct {
	PrincipalCredited bool    `json:"principal_credited"`
	DepositorActive   bool    `json:"depositor_active"`
	SelfBonus         float64 `json:"self_bonus"`
	L1Bonus           float64 `json:"l1_bonus"`
	L2Bonus           float64 `json:"l2_bonus"`
	L1UserID          *uint   `json:"l1_user_id,omitempty"`
	L2UserID          *uint   `json:"l2_user_id,omitempty"`
}

// ApproveDeposit settles an approved deposit: credits the principal,
// updates the depositor's lifetime totals and activation flag, attaches a
// locked-capital lot, and fans out the self/L1/L2 reward legs. The whole
// operation tolerates duplicate calls; re-invoking with the same event ref
// changes nothing.
func (e *Engine) ApproveDeposit(depositorID uint, amount float64, ref DepositEventRef) (*RewardOutcome, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if ref.ID == "" {
		return nil, &ValidationError{Field: "event_ref", Reason: "missing deposit event reference"}
	}

	cache := newUplineCache()
	depositor, err := e.cachedUser(cache, depositorID)
	if err != nil {
		return nil, err
	}
	if depositor == nil {
		return nil, &ValidationError{Field: "depositor_id", Reason: "user not found"}
	}

	amount = utils.Round2(amount)

	// Activation is decided once, from the state the depositor will be in
	// immediately after this deposit. All three bonus legs reuse this
	// snapshot so a single deposit is internally consistent even when the
	// stored flag changes between legs.
	activeAfter := depositor.DepositTotal+amount >= e.cfg.ActivationThreshold

	eventAt := ref.Timestamp
	if eventAt.IsZero() {
		eventAt = time.Now()
	}
	eventAt = eventAt.UTC()

	outcome := &RewardOutcome{DepositorActive: activeAfter}
	principalKey := fmt.Sprintf("deposit:%s:principal", ref.ID)

	// Principal credit plus the once-per-event depositor mutations share
	// one transaction: if the credit is a duplicate, none of them reapply.
	// The activation snapshot is recorded with the principal entry so a
	// redelivery of this event replays with the original eligibility.
	err = e.db.Transaction(func(tx *gorm.DB) error {
		credited, err := tryCreditTx(tx, depositor.ID,
			principalKey,
			models.TxTypeDeposit, amount, false,
			balanceDelta{Current: amount, TotalBalance: amount},
			creditMeta{"source": "deposit", "event_id": ref.ID,
				"base_amount": amount, "active_after": activeAfter})
		if err != nil {
			return err
		}
		outcome.PrincipalCredited = credited
		if !credited {
			return nil
		}

		updates := map[string]interface{}{
			"deposit_total": gorm.Expr("deposit_total + ?", amount),
		}
		if activeAfter {
			updates["is_active"] = true
		}
		if err := tx.Model(&models.User{}).Where("id = ?", depositor.ID).Updates(updates).Error; err != nil {
			return err
		}

		lockStart, lockEnd := ResolveCapitalLockWindow(e.cfg, eventAt)
		lot := models.LockedCapitalLot{
			UserID:    depositor.ID,
			Amount:    amount,
			LockStart: lockStart,
			LockEnd:   lockEnd,
		}
		return tx.Create(&lot).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("approve deposit %s: %w", ref.ID, err)
		}
		outcome.PrincipalCredited = false
	}

	// Duplicate delivery: the depositor's totals have moved since the
	// original settlement, so the recomputed snapshot is not trustworthy.
	// Replay the legs with the eligibility recorded at the original event.
	if !outcome.PrincipalCredited {
		stored, found, err := e.storedActivationSnapshot(depositor.ID, principalKey)
		if err != nil {
			return nil, fmt.Errorf("approve deposit %s: %w", ref.ID, err)
		}
		if found {
			activeAfter = stored
			outcome.DepositorActive = stored
		}
	}

	l1, l2, err := e.resolveUpline(cache, depositor.ID)
	if err != nil {
		return nil, err
	}
	if l1 != nil {
		outcome.L1UserID = &l1.ID
	}
	if l2 != nil {
		outcome.L2UserID = &l2.ID
	}

	// Self bonus: only when the depositor is active after this deposit.
	if activeAfter {
		selfAmt := utils.Pct(amount, e.cfg.SelfBonusPct, utils.LedgerScale)
		if selfAmt > 0 {
			credited, err := e.tryCredit(depositor.ID,
				fmt.Sprintf("deposit:%s:self", ref.ID),
				models.TxTypeBonus, selfAmt, false, earningDelta(selfAmt),
				creditMeta{"source": "deposit_self_bonus", "event_id": ref.ID,
					"base_amount": amount, "pct": e.cfg.SelfBonusPct})
			if err != nil {
				return nil, err
			}
			if credited {
				outcome.SelfBonus = selfAmt
			}
		}
	}

	// Level-1 commission: paid on every deposit when a sponsor exists,
	// regardless of the depositor's activation state.
	if l1 != nil {
		l1Amt := utils.Pct(amount, e.cfg.L1BonusPct, utils.LedgerScale)
		if l1Amt > 0 {
			credited, err := e.tryCredit(l1.ID,
				fmt.Sprintf("deposit:%s:l1", ref.ID),
				models.TxTypeCommission, l1Amt, false, earningDelta(l1Amt),
				creditMeta{"source": "deposit_l1_commission", "event_id": ref.ID,
					"depositor_id": depositor.ID, "base_amount": amount, "pct": e.cfg.L1BonusPct})
			if err != nil {
				return nil, err
			}
			if credited {
				outcome.L1Bonus = l1Amt
			}
		}
	}

	// Level-2 commission: only when the depositor is active after this
	// deposit and a level-2 sponsor exists.
	if activeAfter && l2 != nil {
		l2Amt := utils.Pct(amount, e.cfg.L2BonusPct, utils.LedgerScale)
		if l2Amt > 0 {
			credited, err := e.tryCredit(l2.ID,
				fmt.Sprintf("deposit:%s:l2", ref.ID),
				models.TxTypeCommission, l2Amt, false, earningDelta(l2Amt),
				creditMeta{"source": "deposit_l2_commission", "event_id": ref.ID,
					"depositor_id": depositor.ID, "base_amount": amount, "pct": e.cfg.L2BonusPct})
			if err != nil {
				return nil, err
			}
			if credited {
				outcome.L2Bonus = l2Amt
			}
		}
	}

	return outcome, nil
}

// storedActivationSnapshot reads the activation decision recorded with an
// event's principal credit. found is false when the entry does not exist.
func (e *Engine) storedActivationSnapshot(userID uint, uniqKey string) (bool, bool, error) {
	var entries []models.Transaction
	if err := e.db.Where("user_id = ? AND uniq_key = ?", userID, uniqKey).
		Limit(1).Find(&entries).Error; err != nil {
		return false, false, err
	}
	if len(entries) == 0 {
		return false, false, nil
	}

	var meta struct {
		ActiveAfter bool `json:"active_after"`
	}
	if err := json.Unmarshal([]byte(entries[0].Meta), &meta); err != nil {
		return false, false, nil
	}
	return meta.ActiveAfter, true, nil
}
