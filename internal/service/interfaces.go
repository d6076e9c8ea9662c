// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spendsnap/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	CardID *int64
	Start  time.Time
	End    time.Time // exclusive
	Limit  int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Expense operations
	AddTransaction(ctx context.Context, txn model.Transaction) error
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	FindTransactionsByPrefix(ctx context.Context, prefix string) ([]model.Transaction, error)
	GetTransactionsByMonth(ctx context.Context, month model.Month) ([]model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Budget operations
	SetBudget(ctx context.Context, budget *model.BudgetTarget) error
	GetBudget(ctx context.Context, monthKey string) (*model.BudgetTarget, error)

	// Card operations
	CreateCard(ctx context.Context, card *model.CardProfile) error
	GetCard(ctx context.Context, id int64) (*model.CardProfile, error)
	GetCardByName(ctx context.Context, name string) (*model.CardProfile, error)
	ListCards(ctx context.Context) ([]model.CardProfile, error)
	DeleteCard(ctx context.Context, id int64) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	SeedDefaultCategories(ctx context.Context) (int, error)
	SetCategoryBudget(ctx context.Context, budget model.CategoryBudget) error
	GetCategoryBudgets(ctx context.Context, monthKey string) ([]model.CategoryBudget, error)

	// Settings
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
