// Package storage implements the persistence ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tahbil/internal/core"
	"tahbil/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db  *sql.DB
	hub *store.Hub
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, hub *store.Hub) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, hub: hub}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Watch implements store.Watcher by delegating to the hub.
func (r *SQLiteRepository) Watch(c store.Collection, fn func()) func() {
	return r.hub.Watch(c, fn)
}

func (r *SQLiteRepository) notify(cs ...store.Collection) {
	for _, c := range cs {
		r.hub.Notify(c)
	}
}

// --- members ---

const memberCols = "id, name, house_name, mobile, country, status, photo_url"

func scanMember(row interface{ Scan(...any) error }) (core.Member, error) {
	var m core.Member
	var status string
	err := row.Scan(&m.ID, &m.Name, &m.HouseName, &m.Mobile, &m.Country, &status, &m.PhotoURL)
	m.Status = core.MemberStatus(status)
	return m, err
}

func (r *SQLiteRepository) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+memberCols+" FROM members ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) GetMember(ctx context.Context, id string) (core.Member, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+memberCols+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, store.ErrNotFound
	}
	if err != nil {
		return core.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.Member) (core.Member, error) {
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO members (id, name, house_name, mobile, country, status, photo_url) VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, m.HouseName, m.Mobile, m.Country, string(m.Status), m.PhotoURL)
	if err != nil {
		return core.Member{}, fmt.Errorf("create member: %w", err)
	}

	slog.InfoContext(ctx, "Member created", "id", m.ID, "name", m.Name)
	r.notify(store.CollectionMembers)
	return m, nil
}

func (r *SQLiteRepository) UpdateMember(ctx context.Context, m core.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE members SET name = ?, house_name = ?, mobile = ?, country = ?, status = ?, photo_url = ? WHERE id = ?",
		m.Name, m.HouseName, m.Mobile, m.Country, string(m.Status), m.PhotoURL, m.ID)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.notify(store.CollectionMembers)
	return nil
}

func (r *SQLiteRepository) DeleteMember(ctx context.Context, id string) error {
	m, err := r.GetMember(ctx, id)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("snapshot member: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete member: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO trash (id, original_id, type, data, deleted_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), id, string(core.TrashMember), string(snapshot), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("file member trash record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete member: %w", err)
	}

	slog.InfoContext(ctx, "Member moved to trash", "id", id, "name", m.Name)
	r.notify(store.CollectionMembers, store.CollectionTrash)
	return nil
}

// --- subscriptions ---

const subscriptionCols = "id, member_id, amount, month, paid_at, received_by, receipt_no"

func scanSubscription(row interface{ Scan(...any) error }) (core.Subscription, error) {
	var s core.Subscription
	var month, paidAt string
	if err := row.Scan(&s.ID, &s.MemberID, &s.Amount.Amount, &month, &paidAt, &s.ReceivedBy, &s.ReceiptNo); err != nil {
		return core.Subscription{}, err
	}
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("parse stored month %q: %w", month, err)
	}
	s.Month = m
	t, err := time.Parse(time.RFC3339, paidAt)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("parse stored date %q: %w", paidAt, err)
	}
	s.Date = t
	return s, nil
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+subscriptionCols+" FROM subscriptions ORDER BY month DESC, paid_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []core.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SQLiteRepository) UpsertSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	if err := s.Validate(); err != nil {
		return core.Subscription{}, err
	}

	s.ID = core.SubscriptionID(s.MemberID, s.Month)
	s.ReceiptNo = core.ReceiptNo(s.MemberID, s.Month)
	if s.Date.IsZero() {
		s.Date = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, member_id, amount, month, paid_at, received_by, receipt_no)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			paid_at = excluded.paid_at,
			received_by = excluded.received_by`,
		s.ID, s.MemberID, s.Amount.Amount, s.Month.String(),
		s.Date.UTC().Format(time.RFC3339), s.ReceivedBy, s.ReceiptNo)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("upsert subscription: %w", err)
	}

	slog.InfoContext(ctx, "Subscription saved",
		"id", s.ID, "member_id", s.MemberID, "month", s.Month.String(), "amount", s.Amount.Amount)
	r.notify(store.CollectionSubscriptions)
	return s, nil
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	r.notify(store.CollectionSubscriptions)
	return nil
}

// --- expenses ---

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, category, description, spent_at FROM expenses ORDER BY spent_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range expenses {
		items, err := r.expenseItems(ctx, expenses[i].ID)
		if err != nil {
			return nil, err
		}
		expenses[i].Items = items
	}
	return expenses, nil
}

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var spentAt string
	if err := row.Scan(&e.ID, &e.Category, &e.Description, &spentAt); err != nil {
		return core.Expense{}, err
	}
	t, err := time.Parse(time.RFC3339, spentAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", spentAt, err)
	}
	e.Date = t
	return e, nil
}

func (r *SQLiteRepository) expenseItems(ctx context.Context, expenseID string) ([]core.ExpenseItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, amount FROM expense_items WHERE expense_id = ? ORDER BY position", expenseID)
	if err != nil {
		return nil, fmt.Errorf("list expense items: %w", err)
	}
	defer rows.Close()

	var items []core.ExpenseItem
	for rows.Next() {
		var it core.ExpenseItem
		if err := rows.Scan(&it.Name, &it.Amount.Amount); err != nil {
			return nil, fmt.Errorf("scan expense item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, category, description, spent_at FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}

	items, err := r.expenseItems(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	e.Items = items
	return e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (id, category, description, amount, spent_at) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Category, e.Description, e.Total().Amount, e.Date.UTC().Format(time.RFC3339)); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	if err := insertItems(ctx, tx, e); err != nil {
		return core.Expense{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID, "description", e.Description, "amount", e.Total().Amount, "items", len(e.Items))
	r.notify(store.CollectionExpenses)
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update expense: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET category = ?, description = ?, amount = ?, spent_at = ? WHERE id = ?",
		e.Category, e.Description, e.Total().Amount, e.Date.UTC().Format(time.RFC3339), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_items WHERE expense_id = ?", e.ID); err != nil {
		return fmt.Errorf("clear expense items: %w", err)
	}
	if err := insertItems(ctx, tx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update expense: %w", err)
	}

	r.notify(store.CollectionExpenses)
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, e core.Expense) error {
	for i, it := range e.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expense_items (expense_id, position, name, amount) VALUES (?, ?, ?, ?)",
			e.ID, i, it.Name, it.Amount.Amount); err != nil {
			return fmt.Errorf("insert expense item: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	e, err := r.GetExpense(ctx, id)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("snapshot expense: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete expense: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO trash (id, original_id, type, data, deleted_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), id, string(core.TrashExpense), string(snapshot), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("file expense trash record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_items WHERE expense_id = ?", id); err != nil {
		return fmt.Errorf("delete expense items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense moved to trash", "id", id, "description", e.Description)
	r.notify(store.CollectionExpenses, store.CollectionTrash)
	return nil
}

// --- trash ---

func (r *SQLiteRepository) ListTrash(ctx context.Context) ([]core.TrashRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, original_id, type, data, deleted_at FROM trash ORDER BY deleted_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	defer rows.Close()

	var records []core.TrashRecord
	for rows.Next() {
		var rec core.TrashRecord
		var typ, data, deletedAt string
		if err := rows.Scan(&rec.ID, &rec.OriginalID, &typ, &data, &deletedAt); err != nil {
			return nil, fmt.Errorf("scan trash record: %w", err)
		}
		rec.Type = core.TrashType(typ)
		rec.Data = []byte(data)
		t, err := time.Parse(time.RFC3339, deletedAt)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", deletedAt, err)
		}
		rec.DeletedAt = t
		records = append(records, rec)
	}
	return records, rows.Err()
}

// --- users ---

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u store.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?) ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash",
		u.ID, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// --- insights ---

func (r *SQLiteRepository) GetInsight(ctx context.Context, key string) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx, "SELECT text FROM insights WHERE key = ?", key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get insight: %w", err)
	}
	return text, nil
}

func (r *SQLiteRepository) SaveInsight(ctx context.Context, key, text string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO insights (key, text, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at",
		key, text, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save insight: %w", err)
	}
	return nil
}
