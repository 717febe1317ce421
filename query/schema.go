package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Time
	Enum
	Ref
	RefList
)

// Field maps a public (JSON) field name onto a column.
type Field struct {
	Column string
	Kind   Kind
	// Enum names the models.Enums set for Enum fields.
	Enum string
}

// Schema is the whitelist of filterable, sortable and selectable fields for
// one table.
type Schema struct {
	Fields      map[string]Field
	DefaultSort []string
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func (k Kind) allows(op Op) bool {
	switch k {
	case String, Int, Float, Time:
		return true
	default:
		return op == OpEq || op == OpIn
	}
}

// Where adds the filter conditions of p to db. Unknown fields are ignored.
func (s Schema) Where(db *gorm.DB, p Params) (*gorm.DB, error) {
	for _, f := range p.Filters {
		field, ok := s.Fields[f.Field]
		if !ok {
			continue
		}
		if !field.Kind.allows(f.Op) {
			return nil, utils.BadRequest("Operator %s is not supported for %s", f.Op, f.Field)
		}
		values := make([]any, 0, len(f.Values))
		for _, raw := range f.Values {
			v, err := field.convert(raw)
			if err != nil {
				return nil, utils.BadRequest("Invalid value %q for %s", raw, f.Field)
			}
			values = append(values, v)
		}
		db = field.condition(db, f.Op, values)
	}
	return db, nil
}

func (f Field) convert(raw string) (any, error) {
	switch f.Kind {
	case Int:
		return strconv.Atoi(raw)
	case Float:
		return strconv.ParseFloat(raw, 64)
	case Bool:
		return strconv.ParseBool(raw)
	case Time:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, errors.Errorf("unparseable time %q", raw)
	case Enum:
		if !models.InEnum(f.Enum, raw) {
			return nil, errors.Errorf("%q not in %s", raw, f.Enum)
		}
		return raw, nil
	case Ref, RefList:
		if _, err := uuid.Parse(raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func (f Field) condition(db *gorm.DB, op Op, values []any) *gorm.DB {
	if f.Kind == RefList {
		if op == OpEq {
			return db.Where(fmt.Sprintf("? = ANY(%s)", f.Column), values[0])
		}
		ids := make(pq.StringArray, 0, len(values))
		for _, v := range values {
			ids = append(ids, v.(string))
		}
		return db.Where(fmt.Sprintf("%s && ?::text[]", f.Column), ids)
	}
	switch op {
	case OpGt:
		return db.Where(fmt.Sprintf("%s > ?", f.Column), values[0])
	case OpGte:
		return db.Where(fmt.Sprintf("%s >= ?", f.Column), values[0])
	case OpLt:
		return db.Where(fmt.Sprintf("%s < ?", f.Column), values[0])
	case OpLte:
		return db.Where(fmt.Sprintf("%s <= ?", f.Column), values[0])
	case OpIn:
		return db.Where(fmt.Sprintf("%s IN ?", f.Column), values)
	default:
		return db.Where(fmt.Sprintf("%s = ?", f.Column), values[0])
	}
}

// Order resolves a sort list such as "-published_at,title". An empty list
// falls back to DefaultSort. Descending terms sort NULLs last so unset dates
// trail the list.
func (s Schema) Order(sortBy []string) (clause.OrderBy, error) {
	if len(sortBy) == 0 {
		sortBy = s.DefaultSort
	}
	terms := make([]string, 0, len(sortBy)+1)
	vars := make([]any, 0, len(sortBy)+1)
	for _, term := range sortBy {
		desc := strings.HasPrefix(term, "-")
		name := strings.TrimLeft(term, "-+")
		field, ok := s.Fields[name]
		if !ok || field.Kind == RefList {
			return clause.OrderBy{}, utils.BadRequest("Cannot sort by %s", name)
		}
		if desc {
			terms = append(terms, "? DESC NULLS LAST")
		} else {
			terms = append(terms, "?")
		}
		vars = append(vars, clause.Column{Name: field.Column})
	}
	// Stable paging across equal sort keys.
	terms = append(terms, "?")
	vars = append(vars, clause.Column{Name: "id"})
	return clause.OrderBy{Expression: clause.Expr{SQL: strings.Join(terms, ","), Vars: vars}}, nil
}

// Columns resolves a select list. id is always included.
func (s Schema) Columns(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	cols := []string{"id"}
	for _, name := range selected {
		if name == "id" {
			continue
		}
		field, ok := s.Fields[name]
		if !ok {
			return nil, utils.BadRequest("Cannot select %s", name)
		}
		cols = append(cols, field.Column)
	}
	return cols, nil
}

// Apply adds filters, column selection, ordering and the page window to db.
func (s Schema) Apply(db *gorm.DB, p Params) (*gorm.DB, error) {
	db, err := s.Where(db, p)
	if err != nil {
		return nil, err
	}
	cols, err := s.Columns(p.Select)
	if err != nil {
		return nil, err
	}
	order, err := s.Order(p.Sort)
	if err != nil {
		return nil, err
	}
	if cols != nil {
		db = db.Select(cols)
	}
	return db.Order(order).Offset(p.Offset()).Limit(p.Limit), nil
}

// Result is one page of rows plus the total matching the filters.
type Result[T any] struct {
	Items      []T
	Total      int64
	Pagination Pagination
}

// Run counts and fetches one page of T. Extra scopes narrow both queries.
func Run[T any](ctx context.Context, db *gorm.DB, s Schema, p Params, scopes ...func(*gorm.DB) *gorm.DB) (Result[T], error) {
	var res Result[T]
	scoped := func() *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
	}
	counted, err := s.Where(scoped(), p)
	if err != nil {
		return res, err
	}
	if err := counted.Count(&res.Total).Error; err != nil {
		return res, errors.Wrap(err, "count")
	}

	page, err := s.Apply(scoped(), p)
	if err != nil {
		return res, err
	}
	res.Items = make([]T, 0, p.Limit)
	if err := page.Find(&res.Items).Error; err != nil {
		return res, errors.Wrap(err, "find")
	}
	res.Pagination = NewPagination(p.Page, p.Limit, res.Total)
	return res, nil
}
