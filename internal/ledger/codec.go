package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EncodeProducts serialises the inventory ledger for persistence.
func EncodeProducts(products []Product) ([]byte, error) {
	if products == nil {
		products = []Product{}
	}
	return json.Marshal(products)
}

// EncodeSales serialises the sales ledger for persistence.
func EncodeSales(sales []Sale) ([]byte, error) {
	if sales == nil {
		sales = []Sale{}
	}
	return json.Marshal(sales)
}

// DecodeSnapshot decodes both persisted arrays, validating and coercing each
// record. nil payloads mean the key has never been written and yield an
// empty ledger. Malformed data is rejected with ErrCorruptState instead of
// silently propagating zero values.
//
// Coercions applied for records written by older versions:
//   - a missing product createdAt is backfilled with the current time
//   - a missing record id is assigned
//   - a sale without a productId is linked to the first product with the
//     same SKU, if one exists
func DecodeSnapshot(inventory, sales []byte) (Snapshot, error) {
	products, err := decodeProducts(inventory)
	if err != nil {
		return Snapshot{}, err
	}
	saleRecords, err := decodeSales(sales)
	if err != nil {
		return Snapshot{}, err
	}
	for i := range saleRecords {
		if saleRecords[i].ProductID != "" {
			continue
		}
		for _, p := range products {
			if p.SKU == saleRecords[i].SKU {
				saleRecords[i].ProductID = p.ID
				break
			}
		}
	}
	return Snapshot{Products: products, Sales: saleRecords}, nil
}

func decodeProducts(data []byte) ([]Product, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: inventory: %v", ErrCorruptState, err)
	}
	now := time.Now().UnixMilli()
	for i := range products {
		p := &products[i]
		if strings.TrimSpace(p.Item) == "" || strings.TrimSpace(p.SKU) == "" {
			return nil, fmt.Errorf("%w: inventory record %d: missing item or sku", ErrCorruptState, i)
		}
		if p.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: inventory record %d: negative cost price", ErrCorruptState, i)
		}
		if p.CreatedAt == 0 {
			p.CreatedAt = now
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
	}
	return products, nil
}

func decodeSales(data []byte) ([]Sale, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var sales []Sale
	if err := json.Unmarshal(data, &sales); err != nil {
		return nil, fmt.Errorf("%w: sales: %v", ErrCorruptState, err)
	}
	for i := range sales {
		s := &sales[i]
		if strings.TrimSpace(s.SKU) == "" {
			return nil, fmt.Errorf("%w: sale record %d: missing sku", ErrCorruptState, i)
		}
		if s.Quantity <= 0 {
			return nil, fmt.Errorf("%w: sale record %d: non-positive quantity", ErrCorruptState, i)
		}
		if s.Date.IsZero() {
			return nil, fmt.Errorf("%w: sale record %d: missing date", ErrCorruptState, i)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
	}
	return sales, nil
}
