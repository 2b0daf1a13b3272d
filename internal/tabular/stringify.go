package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Missing is shown for cells the provider sent as null
const Missing = "N/A"

// Stringify renders a raw cell as display text. Floats never use exponent
// notation and times are shown as UTC dates.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return Missing
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return decimal.NewFromFloat(x).String()
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.DateOnly)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
