package fetcher

// Result is the raw outcome of a fetch. It is one of *RowTable, *KeyValueMap,
// *TimeKeyedMap or Empty. Absence of data is Empty, never an error.
type Result interface {
	isResult()
}

// Empty signals that the provider answered but had no data for the request.
type Empty struct{}

// RowTable is already rectangular-ish row data. Rows may be ragged; cells keep
// their source types (time.Time, float64, int64, json.Number, string, nil).
type RowTable struct {
	Columns []string
	Rows    [][]any
}

// Column returns the index of the named column or -1.
func (t *RowTable) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Entry is one field of a KeyValueMap.
type Entry struct {
	Key   string
	Value any
}

// KeyValueMap is an ordered flat mapping of field name to scalar.
type KeyValueMap struct {
	Entries []Entry
}

// Point is one period of a Series. Key is the provider's timestamp key,
// normally epoch milliseconds.
type Point struct {
	Key   string
	Value any
}

// Series is one statement line item.
type Series struct {
	Name   string
	Points []Point
}

// TimeKeyedMap is an ordered mapping of line item to timestamp/value pairs.
type TimeKeyedMap struct {
	Fields []Series
}

func (Empty) isResult()         {}
func (*RowTable) isResult()     {}
func (*KeyValueMap) isResult()  {}
func (*TimeKeyedMap) isResult() {}

// IsEmpty reports whether r carries no data at all.
func IsEmpty(r Result) bool {
	switch v := r.(type) {
	case nil, Empty:
		return true
	case *RowTable:
		return v == nil || len(v.Rows) == 0
	case *KeyValueMap:
		return v == nil || len(v.Entries) == 0
	case *TimeKeyedMap:
		return v == nil || len(v.Fields) == 0
	}
	return true
}
