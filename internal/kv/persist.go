package kv

import (
	"context"
	"log/slog"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// Persister mirrors ledger snapshots to the key-value store. It is wired as
// a store subscriber, so every committed mutation replaces the persisted
// arrays for the collections it touched. Write failures are logged and not
// retried; the in-memory ledgers remain authoritative for the session.
type Persister struct {
	client *Client
	logger *slog.Logger
}

// NewPersister constructs a Persister.
func NewPersister(client *Client, logger *slog.Logger) *Persister {
	return &Persister{client: client, logger: logger}
}

// HandleChange persists the collections marked changed.
func (p *Persister) HandleChange(change ledger.Change) {
	ctx := context.Background()
	if change.Inventory {
		data, err := ledger.EncodeProducts(change.Snapshot.Products)
		if err == nil {
			err = p.client.Set(ctx, KeyInventory, data)
		}
		if err != nil {
			p.logger.Error("persist inventory snapshot", slog.Any("error", err))
		}
	}
	if change.Sales {
		data, err := ledger.EncodeSales(change.Snapshot.Sales)
		if err == nil {
			err = p.client.Set(ctx, KeySales, data)
		}
		if err != nil {
			p.logger.Error("persist sales snapshot", slog.Any("error", err))
		}
	}
}

// Load reads and decodes both persisted ledgers.
func Load(ctx context.Context, client *Client) (ledger.Snapshot, error) {
	inventory, _, err := client.Get(ctx, KeyInventory)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	sales, _, err := client.Get(ctx, KeySales)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return ledger.DecodeSnapshot(inventory, sales)
}
