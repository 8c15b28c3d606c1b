package dao

import (
	"context"

	"github.com/infitab/infitab/internal/model1"
)

// ColumnFetcher retrieves the table header.
type ColumnFetcher interface {
	FetchColumns(ctx context.Context) (model1.Columns, error)
}

// RowFetcher retrieves one page of rows, numbered from 1.
type RowFetcher interface {
	FetchRows(ctx context.Context, page int) (model1.Page, error)
}

// RowCreator submits a new record.
type RowCreator interface {
	CreateRow(ctx context.Context, fields map[string]string) error
}

// Backend combines every call a table view issues.
type Backend interface {
	ColumnFetcher
	RowFetcher
	RowCreator
}

// Factory hands out the backend a table view talks to.
type Factory interface {
	Backend() Backend
	BaseURL() string
}
