package repository

import (
	"context"
	"errors"
	"time"
)

// Стандартные ошибки
var ErrRunNotFound = errors.New("solve run not found")

// Run запись одного расчёта максимального потока.
// MaxFlow хранится точной строкой ("Infinity" для бесконечного потока),
// без float-округления.
type Run struct {
	ID                string
	Name              string
	Source            string // edges | matrix
	NetworkHash       string
	MaxFlow           string
	Cached            bool
	NodeCount         int
	EdgeCount         int
	ComputationTimeMs float64
	RequestData       []byte // JSON
	ResultData        []byte // JSON
	CreatedAt         time.Time
}

// RunSummary краткая информация о расчёте
type RunSummary struct {
	ID                string
	Name              string
	Source            string
	MaxFlow           string
	Cached            bool
	NodeCount         int
	EdgeCount         int
	ComputationTimeMs float64
	CreatedAt         time.Time
}

// ListOptions опции для списка
type ListOptions struct {
	Limit  int
	Offset int
	Source string // фильтр по происхождению сети, пусто - все
}

// RunRepository интерфейс репозитория расчётов
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error)
	Delete(ctx context.Context, id string) error
}
