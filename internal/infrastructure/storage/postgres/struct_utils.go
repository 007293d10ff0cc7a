package postgres

import (
	"reflect"
	"sync"
)

// column maps a "db" tag to the field index path inside a row struct.
// Fields of embedded structs (entity.Document, documents.CustomerRef) are
// flattened into the outer row.
type column struct {
	name  string
	index []int
}

// columnCache holds reflect.Type -> []column.
var columnCache sync.Map

func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	cols := walkColumns(t, nil, nil)
	columnCache.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, prefix []int, out []column) []column {
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append(make([]int, 0, len(prefix)+1), prefix...), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			out = walkColumns(ft, path, out)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		out = append(out, column{name: tag, index: path})
	}
	return out
}

func structValue(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.Kind() == reflect.Struct
}

// ExtractDBColumns lists the columns of a row struct in field order.
// Called once per repository at construction.
//
//	columns := ExtractDBColumns[cashflow.Entry]()
//	// ["id", "deletion_mark", "version", "created_at", "updated_at", "entry_date", ...]
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a row struct to column -> value for squirrel's SetMap.
// Fields behind a nil embedded pointer are skipped.
func StructToMap(v any) map[string]any {
	rv, ok := structValue(v)
	if !ok {
		return nil
	}
	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		if f, err := rv.FieldByIndexErr(c.index); err == nil {
			res[c.name] = f.Interface()
		}
	}
	return res
}

// ColumnValue reads one column from a row struct without building the full map.
func ColumnValue(v any, name string) (any, bool) {
	rv, ok := structValue(v)
	if !ok {
		return nil, false
	}
	for _, c := range columnsOf(rv.Type()) {
		if c.name != name {
			continue
		}
		f, err := rv.FieldByIndexErr(c.index)
		if err != nil {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}
