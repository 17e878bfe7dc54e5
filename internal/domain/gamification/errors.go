package gamification

import (
	"errors"
	"fmt"
)

// Gamification domain errors
var (
	ErrAchievementNotFound  = errors.New("achievement not found")
	ErrAchievementNameTaken = errors.New("achievement name already exists")
	ErrAchievementInactive  = errors.New("achievement is inactive")
	ErrInvalidAmount        = errors.New("amount must be a positive integer")
	ErrInvalidCurrency      = errors.New("currency must be POINTS or COINS")
	ErrBonusAlreadyAwarded  = errors.New("bonus has already been awarded for this record")
)

// InsufficientBalanceError reports a spend that would overdraw a ledger.
// It carries both sides of the check so callers can show the shortfall.
type InsufficientBalanceError struct {
	Currency  Currency
	Required  int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %d, available %d",
		e.Currency, e.Required, e.Available)
}
