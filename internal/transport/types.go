package transport

import (
	"context"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Storage interface {
		Append(ctx context.Context, data []byte) (model.AppendResult, error)
		Read(ctx context.Context, contentID string) (model.ReadResult, error)
		ListAll(ctx context.Context, boundary *model.TimeBoundary) ([]model.ListedEntry, error)
	}
	Metrics interface {
		Observe(route string, code int, started time.Time)
	}
)
