package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/service"
)

const expenseColumns = `id, occurred_at, month_key, amount, merchant, method, category_id, card_id`

// AddTransaction stores a manually entered expense. Manual entries are never
// deduplicated.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, expenseArgs(txn)...)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", txn.ID, err)
	}
	return nil
}

// SaveTransactions stores imported expenses, skipping any whose hash is
// already present. It returns how many rows were inserted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	// Validate inputs
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO expenses (`+expenseColumns+`, import_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, txn := range transactions {
			res, err := stmt.ExecContext(ctx, append(expenseArgs(txn), txn.Hash())...)
			if err != nil {
				return fmt.Errorf("failed to insert expense %s: %w", txn.ID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	common.LogDebug("Saved expenses", common.Fields{"received": len(transactions), "inserted": inserted})
	return inserted, nil
}

func expenseArgs(txn model.Transaction) []any {
	return []any{
		txn.ID,
		txn.Date.UnixNano(),
		txn.MonthKey,
		txn.Amount.String(),
		txn.Merchant,
		string(txn.Method),
		nullableID(txn.CategoryID),
		nullableID(txn.CardID),
	}
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner, loc *time.Location) (model.Transaction, error) {
	var (
		txn        model.Transaction
		occurredAt int64
		method     string
		categoryID sql.NullInt64
		cardID     sql.NullInt64
	)

	if err := row.Scan(
		&txn.ID,
		&occurredAt,
		&txn.MonthKey,
		&txn.Amount,
		&txn.Merchant,
		&method,
		&categoryID,
		&cardID,
	); err != nil {
		return model.Transaction{}, err
	}

	txn.Date = time.Unix(0, occurredAt).In(loc)
	txn.Method = model.PaymentMethod(method)
	if categoryID.Valid {
		id := categoryID.Int64
		txn.CategoryID = &id
	}
	if cardID.Valid {
		id := cardID.Int64
		txn.CardID = &id
	}
	return txn, nil
}

// GetTransactionByID retrieves a single expense.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	txn, err := scanTransaction(row, s.loc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &txn, nil
}

// GetTransactionsByMonth returns the expenses dated inside month, oldest first.
func (s *SQLiteStorage) GetTransactionsByMonth(ctx context.Context, month model.Month) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{Start: month.Start(), End: month.End()})
}

// GetTransactions returns expenses matching filter, oldest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if !filter.Start.IsZero() && !filter.End.IsZero() && filter.End.Before(filter.Start) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, filter.End, filter.Start)
	}
	return s.getTransactions(ctx, s.db, filter)
}

func (s *SQLiteStorage) getTransactions(ctx context.Context, q queryable, filter service.TransactionFilter) ([]model.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if !filter.Start.IsZero() {
		where = append(where, "occurred_at >= ?")
		args = append(args, filter.Start.UnixNano())
	}
	if !filter.End.IsZero() {
		where = append(where, "occurred_at < ?")
		args = append(args, filter.End.UnixNano())
	}
	if filter.CardID != nil {
		where = append(where, "card_id = ?")
		args = append(args, *filter.CardID)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at, created_at"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows, s.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return out, nil
}

// DeleteTransaction removes an expense.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// FindTransactionsByPrefix returns the expenses whose ID starts with prefix.
func (s *SQLiteStorage) FindTransactionsByPrefix(ctx context.Context, prefix string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(prefix, "prefix"); err != nil {
		return nil, err
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id LIKE ? ESCAPE '\'
		ORDER BY occurred_at`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows, s.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return out, nil
}
