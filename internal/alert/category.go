package alert

import "strings"

// Category is one of the fixed alert classes.
type Category string

// Alert categories, in declaration order. The order decides ties in Classify.
const (
	CategoryRevenue Category = "revenue"
	CategoryTraffic Category = "traffic"
	CategoryErrors  Category = "errors"
	CategoryLatency Category = "latency"
	CategoryData    Category = "data"
)

// Title returns the category name with its first letter upper-cased.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Patterns is the trigger list for one category.
type Patterns struct {
	Category Category
	Triggers []string
}

// PatternTable maps categories to their triggers. Order is significant.
type PatternTable []Patterns

// DefaultPatterns is the process-wide trigger table.
var DefaultPatterns = PatternTable{
	{Category: CategoryRevenue, Triggers: []string{
		"overspend", "budget exceeded", "cost spike", "spend alert",
		"revenue drop", "massive spend", "budget breach", "$100k",
	}},
	{Category: CategoryTraffic, Triggers: []string{
		"traffic drop", "request drop", "bid drop", "impression drop",
		"ad requests", "bid requests", "fill rate", "ctr drop",
	}},
	{Category: CategoryErrors, Triggers: []string{
		"5xx", "500 error", "503 error", "error rate", "timeout",
		"service unavailable", "gateway timeout", "internal server error",
	}},
	{Category: CategoryLatency, Triggers: []string{
		"latency", "slow response", "response time", "timeout",
		"degradation", "p95", "p99", "milliseconds",
	}},
	{Category: CategoryData, Triggers: []string{
		"data discrepancy", "reporting mismatch", "analytics",
		"data inconsistency", "sync error",
	}},
}

// Categories returns the categories of the table in declaration order.
func (t PatternTable) Categories() []Category {
	out := make([]Category, len(t))
	for i, p := range t {
		out[i] = p.Category
	}
	return out
}
