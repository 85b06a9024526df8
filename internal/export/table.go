// Package export serialises a slice of flat records into a single-sheet
// tabular file. Column headers are the upper-cased field names of the first
// record; each record becomes one row, preserving slice order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// WriteCSV writes records as CSV. records must be a slice of structs; field
// names are taken from json tags. An empty slice is a no-op, not an error:
// nothing is written at all.
func WriteCSV(w io.Writer, records any) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("export: expected a slice, got %T", records)
	}
	if v.Len() == 0 {
		return nil
	}
	elemType := v.Index(0).Type()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("export: expected a slice of structs, got %T", records)
	}

	fields := exportableFields(elemType)
	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = strings.ToUpper(fieldName(f))
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for i := 0; i < v.Len(); i++ {
		record := v.Index(i)
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = formatCell(record.FieldByIndex(f.Index).Interface())
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func exportableFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("json") == "-" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

func formatCell(value any) string {
	switch v := value.(type) {
	case decimal.Decimal:
		return v.String()
	case ledger.Time:
		return v.UTC().Format(time.RFC3339)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
