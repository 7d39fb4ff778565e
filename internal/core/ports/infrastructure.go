// internal/core/ports/infrastructure.go
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// Spreadsheet reads import files and writes templates.
type Spreadsheet interface {
	ParseMedicineRows(data []byte) ([]domain.MedicineRow, error)
	ParseStockRows(data []byte) ([]domain.StockRow, error)
	Template(kind domain.ImportKind) ([]byte, error)
	StockReport(entries []domain.StockEntry) ([]byte, error)
}

// FileStore keeps uploaded files until a worker picks them up.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Purge removes files last modified before cutoff.
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}

// TaskQueue enqueues background work.
type TaskQueue interface {
	EnqueueImport(ctx context.Context, payload ImportTaskPayload) error
}
