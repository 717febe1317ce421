package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"cricanalyzer/utils"
)

// MaxLimit caps the page size of every list endpoint.
const MaxLimit = 100

// MaxPage keeps page*limit and the row offset inside int.
const MaxPage = math.MaxInt / MaxLimit

type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// reserved keys are control parameters, never filters.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

type Filter struct {
	Field  string
	Op     Op
	Values []string
}

// Params is a parsed list request.
type Params struct {
	Filters []Filter
	Select  []string
	Sort    []string
	Page    int
	Limit   int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads filters and control keys from a raw query string. Filter keys
// take the form field=value or field[op]=value.
func Parse(rawQuery string, defaultLimit int) (Params, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Params{}, utils.BadRequest("Malformed query string")
	}
	return FromValues(values, defaultLimit)
}

func FromValues(values url.Values, defaultLimit int) (Params, error) {
	p := Params{
		Select: splitList(values.Get("select")),
		Sort:   splitList(values.Get("sort")),
		Page:   positiveInt(values.Get("page"), 1),
		Limit:  positiveInt(values.Get("limit"), defaultLimit),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		return Params{}, utils.BadRequest("page must be at most %d", MaxPage)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reserved[key] {
			continue
		}
		field, op, err := splitKey(key)
		if err != nil {
			return Params{}, err
		}
		var vals []string
		for _, raw := range values[key] {
			if op == OpIn {
				vals = append(vals, splitList(raw)...)
				continue
			}
			vals = append(vals, raw)
		}
		if op == OpEq && len(vals) > 1 {
			op = OpIn
		}
		if len(vals) == 0 {
			return Params{}, utils.BadRequest("Missing value for filter %s", key)
		}
		if op != OpIn && op != OpEq {
			vals = vals[:1]
		}
		p.Filters = append(p.Filters, Filter{Field: field, Op: op, Values: vals})
	}
	return p, nil
}

func splitKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", utils.BadRequest("Malformed filter %s", key)
	}
	op, ok := operators[key[open+1:len(key)-1]]
	if !ok {
		return "", "", utils.BadRequest("Unsupported operator in filter %s", key)
	}
	return key[:open], op, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(raw string, fallback int) int {
	if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && value > 0 {
		return value
	}
	return fallback
}
