package query

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cricanalyzer/utils"
)

type article struct {
	ID          string
	Title       string
	Views       int
	Category    string
	Featured    bool
	AuthorID    string
	Teams       pq.StringArray `gorm:"type:text[]"`
	PublishedAt time.Time
}

func (article) TableName() string { return "articles" }

var articleSchema = Schema{
	Fields: map[string]Field{
		"title":        {Column: "title", Kind: String},
		"views":        {Column: "views", Kind: Int},
		"category":     {Column: "category", Kind: Enum, Enum: "news_category"},
		"featured":     {Column: "featured", Kind: Bool},
		"author_id":    {Column: "author_id", Kind: Ref},
		"team_ids":     {Column: "teams", Kind: RefList},
		"published_at": {Column: "published_at", Kind: Time},
	},
	DefaultSort: []string{"-published_at"},
}

const teamA = "2f1d1a3c-7d0e-4c43-9b1a-0d1f7d1b0a11"
const teamB = "6a7b1c2d-3e4f-4a5b-8c6d-7e8f9a0b1c22"

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func render(t *testing.T, raw string) (string, []any) {
	t.Helper()
	p, err := Parse(raw, 10)
	require.NoError(t, err)
	db, err := articleSchema.Apply(dryRun(t).Model(&article{}), p)
	require.NoError(t, err)
	stmt := db.Find(&[]article{}).Statement
	return stmt.SQL.String(), stmt.Vars
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var resp *utils.ErrorResponse
	require.ErrorAs(t, err, &resp)
	return resp.StatusCode
}

func TestParseSplitsControlKeysFromFilters(t *testing.T) {
	p, err := Parse("select=title,views&sort=-views&page=2&limit=5&views[gte]=10&title=Ashes", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "views"}, p.Select)
	assert.Equal(t, []string{"-views"}, p.Sort)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 5, p.Offset())
	assert.ElementsMatch(t, []Filter{
		{Field: "title", Op: OpEq, Values: []string{"Ashes"}},
		{Field: "views", Op: OpGte, Values: []string{"10"}},
	}, p.Filters)
}

func TestParseDefaultsAndLimitCap(t *testing.T) {
	p, err := Parse("page=abc&limit=-3", 12)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)

	p, err = Parse("limit=5000", 10)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestParseInListAndRepeatedKeys(t *testing.T) {
	p, err := Parse("category[in]=News,Opinion&title=a&title=b", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Filter{
		{Field: "category", Op: OpIn, Values: []string{"News", "Opinion"}},
		{Field: "title", Op: OpIn, Values: []string{"a", "b"}},
	}, p.Filters)
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	_, err := Parse("views[ne]=3", 10)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = Parse("views[gte=3", 10)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestApplyComparisonOperators(t *testing.T) {
	sql, vars := render(t, "views[gte]=10&views[lt]=50")
	assert.Contains(t, sql, "views >= $1")
	assert.Contains(t, sql, "views < $2")
	assert.Equal(t, []any{10, 50}, vars[:2])
}

func TestApplyRefListFilters(t *testing.T) {
	sql, vars := render(t, "team_ids="+teamA)
	assert.Contains(t, sql, "$1 = ANY(teams)")
	assert.Equal(t, teamA, vars[0])

	sql, vars = render(t, "team_ids[in]="+teamA+","+teamB)
	assert.Contains(t, sql, "teams && $1::text[]")
	assert.Equal(t, pq.StringArray{teamA, teamB}, vars[0])
}

func TestApplyInOnScalar(t *testing.T) {
	sql, _ := render(t, "category[in]=News,Opinion")
	assert.Contains(t, sql, "category IN ($1,$2)")
}

func TestApplyDefaultSortAndWindow(t *testing.T) {
	sql, _ := render(t, "page=3&limit=7")
	assert.Contains(t, sql, `ORDER BY "published_at" DESC NULLS LAST,"id"`)
	assert.Contains(t, sql, "LIMIT $1 OFFSET $2")
}

func TestApplyExplicitSortAndSelect(t *testing.T) {
	sql, _ := render(t, "sort=title,-views&select=title")
	assert.Contains(t, sql, `ORDER BY "title","views" DESC NULLS LAST,"id"`)
	assert.Contains(t, sql, `SELECT "id","title" FROM "articles"`)
}

func TestRunPagesThroughApply(t *testing.T) {
	db := dryRun(t)
	var statements []string
	err := db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	require.NoError(t, err)

	p, err := Parse("views[gte]=10&page=2&limit=5", 10)
	require.NoError(t, err)
	res, err := Run[article](context.Background(), db, articleSchema, p)
	require.NoError(t, err)

	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "count(*)")
	assert.Contains(t, statements[0], "views >= $1")
	assert.NotContains(t, statements[0], "ORDER BY")
	assert.Contains(t, statements[1], `ORDER BY "published_at" DESC NULLS LAST,"id" LIMIT $2 OFFSET $3`)
	assert.Empty(t, res.Items)
	assert.Nil(t, res.Pagination.Next)
	assert.NotNil(t, res.Pagination.Prev)
}

func TestParseRejectsOverflowingPage(t *testing.T) {
	p, err := Parse("page="+strconv.Itoa(MaxPage)+"&limit=100", 10)
	require.NoError(t, err)
	assert.Greater(t, int64(p.Offset()), int64(0))
	pagination := NewPagination(p.Page, p.Limit, 5)
	assert.Nil(t, pagination.Next)

	_, err = Parse("page="+strconv.Itoa(MaxPage+1)+"&limit=100", 10)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))

	_, err = Parse("page=92233720368547759&limit=100", 10)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestApplyIgnoresUnknownFilterFields(t *testing.T) {
	sql, _ := render(t, "nonsense=1")
	assert.NotContains(t, sql, "nonsense")
	assert.NotContains(t, sql, "WHERE")
}

func TestApplyRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"int value":     "views[gte]=lots",
		"bool value":    "featured=maybe",
		"time value":    "published_at[gte]=yesterday",
		"enum value":    "category=Gossip",
		"ref value":     "author_id=42",
		"bool operator": "featured[gt]=true",
		"ref operator":  "team_ids[lt]=" + teamA,
		"sort field":    "sort=-password",
		"select field":  "select=password",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := Parse(raw, 10)
			require.NoError(t, err)
			_, err = articleSchema.Apply(dryRun(t).Model(&article{}), p)
			require.Error(t, err)
			assert.Equal(t, 400, statusOf(t, err))
		})
	}
}

func TestTimeFilterAcceptsDates(t *testing.T) {
	_, vars := render(t, "published_at[gte]=2024-01-31")
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), vars[0])
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)
	require.NotNil(t, p.Next)
	assert.Equal(t, PageRef{Page: 2, Limit: 10}, *p.Next)
	assert.Nil(t, p.Prev)

	p = NewPagination(3, 10, 25)
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, PageRef{Page: 2, Limit: 10}, *p.Prev)

	// next is present iff page*limit < total
	p = NewPagination(2, 10, 20)
	assert.Nil(t, p.Next)
	p = NewPagination(2, 10, 21)
	assert.NotNil(t, p.Next)
}
