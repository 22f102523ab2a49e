package clickhouse

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"
)

type (
	// Metrics observes repository operations.
	Metrics interface {
		Observe(operation, network string, err error, started time.Time)
	}

	// Conn is the subset of the ClickHouse driver connection the repository uses.
	Conn interface {
		Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}

	// Rows iterates a query result.
	Rows interface {
		Next() bool
		Scan(dest ...interface{}) error
		Err() error
		Close() error
	}

	// Batch accumulates rows of one INSERT.
	Batch interface {
		Append(v ...interface{}) error
		Send() error
		Abort() error
	}
)
