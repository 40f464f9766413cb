// Package store defines the persistence ports the HTTP and worker layers
// depend on, plus the change hub that fans out write notifications.
package store

import (
	"context"
	"errors"

	"tahbil/internal/core"
)

// Collection names the data sets a watcher can subscribe to.
type Collection string

const (
	CollectionMembers       Collection = "members"
	CollectionSubscriptions Collection = "subscriptions"
	CollectionExpenses      Collection = "expenses"
	CollectionTrash         Collection = "trash"
)

var ErrNotFound = errors.New("not found")

type MemberStore interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
	GetMember(ctx context.Context, id string) (core.Member, error)
	CreateMember(ctx context.Context, m core.Member) (core.Member, error)
	UpdateMember(ctx context.Context, m core.Member) error
	// DeleteMember removes the member and files a trash record in the
	// same transaction.
	DeleteMember(ctx context.Context, id string) error
}

type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context) ([]core.Subscription, error)
	// UpsertSubscription writes by the composite member+month id, so a
	// repeated save for the same month overwrites the earlier payment.
	UpsertSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}

type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	// DeleteExpense removes the expense and files a trash record in the
	// same transaction.
	DeleteExpense(ctx context.Context, id string) error
}

type TrashStore interface {
	ListTrash(ctx context.Context) ([]core.TrashRecord, error)
}

// UserStore is the credential lookup used by the login flow.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, u User) error
}

// User is a login account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// InsightKeyFundSummary is the insight slot the worker refreshes and the
// dashboard reads.
const InsightKeyFundSummary = "fund-summary"

// InsightStore caches AI-generated report text so the dashboard does not
// call the model on every page load.
type InsightStore interface {
	GetInsight(ctx context.Context, key string) (string, error)
	SaveInsight(ctx context.Context, key, text string) error
}

// Watcher delivers change notifications for a collection. The returned
// function removes the subscription; it is safe to call more than once.
type Watcher interface {
	Watch(c Collection, fn func()) (unsubscribe func())
}

// Store bundles every port the server needs.
type Store interface {
	MemberStore
	SubscriptionStore
	ExpenseStore
	TrashStore
	UserStore
	InsightStore
	Watcher
	Close() error
}
