package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusActive   MemberStatus = "active"
	StatusInactive MemberStatus = "inactive"
)

const (
	TrashMember  TrashType = "member"
	TrashExpense TrashType = "expense"
)

type (
	MemberStatus string

	TrashType string

	// Money is a whole-taka amount. Subscriptions and expenses are always
	// recorded in whole taka, so there is no fractional unit.
	Money struct {
		Amount int64
	}

	Member struct {
		ID        string
		Name      string
		HouseName string
		Mobile    string // optional
		Country   string
		Status    MemberStatus
		PhotoURL  string
	}

	// Subscription is one month's payment from one member. Its ID is the
	// composite key memberID_month, so writing the same member+month twice
	// overwrites instead of duplicating.
	Subscription struct {
		ID         string
		MemberID   string
		Amount     Money
		Month      Month
		Date       time.Time
		ReceivedBy string
		ReceiptNo  string
	}

	ExpenseItem struct {
		Name   string
		Amount Money
	}

	// Expense is a recorded outflow. Amount is always derived from the item
	// list; it is never accepted from input independently.
	Expense struct {
		ID          string
		Category    string
		Description string
		Date        time.Time
		Items       []ExpenseItem
	}

	// TrashRecord is an append-only audit snapshot kept after a delete.
	// There is no restore operation.
	TrashRecord struct {
		ID         string
		OriginalID string
		Type       TrashType
		Data       []byte // JSON snapshot of the deleted entity
		DeletedAt  time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyHouseName   = errors.New("empty house name")
	ErrEmptyDescription = errors.New("empty description")
	ErrNoItems          = errors.New("expense has no items")
	ErrEmptyMemberID    = errors.New("empty member id")
	ErrInvalidStatus    = errors.New("invalid member status")
)

func (m Money) Validate() error {
	if m.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s MemberStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.HouseName) == "" {
		return ErrEmptyHouseName
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if err := s.Month.Validate(); err != nil {
		return err
	}
	return s.Amount.Validate()
}

// Total derives the expense amount as the sum of its item amounts.
// The stored amount column is recomputed from this on every write.
func (e Expense) Total() Money {
	var sum int64
	for _, it := range e.Items {
		sum += it.Amount.Amount
	}
	return Money{Amount: sum}
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	named := 0
	for _, it := range e.Items {
		if strings.TrimSpace(it.Name) != "" {
			named++
		}
	}
	if named == 0 {
		return ErrNoItems
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return e.Total().Validate()
}

// SubscriptionID builds the composite document id that enforces at most one
// subscription per member per month.
func SubscriptionID(memberID string, m Month) string {
	return memberID + "_" + m.String()
}

// ReceiptNo builds the human-facing receipt number for a payment:
// RCP-YYYYMM-<last four of the member id, uppercased>.
func ReceiptNo(memberID string, m Month) string {
	tail := memberID
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return "RCP-" + strings.ReplaceAll(m.String(), "-", "") + "-" + strings.ToUpper(tail)
}
