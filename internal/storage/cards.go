package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
)

const cardColumns = `id, name, cycle_limit, statement_day, due_day, color`

// CreateCard stores a new card and sets its ID.
func (s *SQLiteStorage) CreateCard(ctx context.Context, card *model.CardProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}
	if card.Color == "" {
		card.Color = model.CardRoyalBlue
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (name, cycle_limit, statement_day, due_day, color)
		VALUES (?, ?, ?, ?, ?)
	`, strings.TrimSpace(card.Name), card.CycleLimit.String(), card.StatementDay, card.DueDay, string(card.Color))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: card %q", common.ErrDuplicateEntry, card.Name)
		}
		return fmt.Errorf("failed to create card: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card ID: %w", err)
	}
	card.ID = id
	return nil
}

func scanCard(row rowScanner) (model.CardProfile, error) {
	var (
		card  model.CardProfile
		color string
	)
	if err := row.Scan(&card.ID, &card.Name, &card.CycleLimit, &card.StatementDay, &card.DueDay, &color); err != nil {
		return model.CardProfile{}, err
	}
	card.Color = model.ParseCardColor(color)
	return card, nil
}

// GetCard returns a card by ID.
func (s *SQLiteStorage) GetCard(ctx context.Context, id int64) (*model.CardProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getCard(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
}

// GetCardByName returns a card by its case-insensitive name.
func (s *SQLiteStorage) GetCardByName(ctx context.Context, name string) (*model.CardProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getCard(ctx, `SELECT `+cardColumns+` FROM cards WHERE name = ?`, strings.TrimSpace(name))
}

func (s *SQLiteStorage) getCard(ctx context.Context, query string, arg any) (*model.CardProfile, error) {
	card, err := scanCard(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

// ListCards returns all cards ordered by name.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.CardProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.CardProfile
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}

// DeleteCard removes a card. Expenses charged to it keep their amounts but
// lose the card reference.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
