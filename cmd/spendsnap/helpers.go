package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/service"
)

const minIDPrefix = 8

// findExpense resolves a full ID or a unique prefix of one.
func findExpense(ctx context.Context, store service.Storage, id string) (*model.Transaction, error) {
	txn, err := store.GetTransactionByID(ctx, id)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if len(id) < minIDPrefix {
		return nil, common.NewUserError(fmt.Sprintf("no expense with ID %q", id), common.ErrNotFound)
	}
	matches, err := store.FindTransactionsByPrefix(ctx, id)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, common.NewUserError(fmt.Sprintf("no expense with ID %q", id), common.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, common.NewUserError(fmt.Sprintf("%d expenses start with %q; use more characters", len(matches), id), nil)
	}
}

func shortID(id string) string {
	if len(id) > minIDPrefix {
		return id[:minIDPrefix]
	}
	return id
}
