package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/awaismughal2020/prodex/internal/db"
	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/query"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "prodex:products:p1"
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "prodex:products:p1", map[string]string{"name": "Widget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "k", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
	if !errors.Is(err, db.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "prodex:products:p1")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name":  mock.RedisString("Widget"),
			"price": mock.RedisString("19.99"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "prodex:products:p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["name"] != "Widget" || m["price"] != "19.99" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name  string
		reply int64
		want  bool
	}{
		{"present", 1, true},
		{"absent", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("EXISTS", "k")).
				Return(mock.Result(mock.RedisInt64(tc.reply)))

			s := NewStoreForTest(c)
			got, err := s.Exists(context.Background(), "k")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("exists = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "k")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	def := db.NewIndex("prodex:products:idx").
		Prefix("prodex:products:").
		Text("name", 4).
		Text("tags", 3).
		Tag("category").
		TagWithSeparatorAs("tags", "tags_tag", ",").
		SortableNumeric("rating").
		MustBuild()

	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, captured, "PREFIX")
	assertContains(t, captured, "prodex:products:")
	assertContains(t, captured, "WEIGHT")
	assertContains(t, captured, "AS")
	assertContains(t, captured, "tags_tag")
	assertContains(t, captured, "SEPARATOR")
	assertContains(t, captured, "SORTABLE")
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := db.NewIndex("idx").Prefix("p:").Tag("category").MustBuild()

	err := s.CreateIndex(context.Background(), def)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false for unknown index")
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "idx"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

// --- search.go tests ---

func TestSearch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("prodex:products:p1"),
			mock.RedisString("3.5"),
			mock.RedisArray(
				mock.RedisString("name"),
				mock.RedisString("Wireless Headphones"),
			),
		)))

	s := NewStoreForTest(c)
	q := compiledQuery(t, "headphones")
	result, err := s.Search(context.Background(), &db.TextQuery{IndexName: "idx", Query: q})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Entries) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	e := result.Entries[0]
	if e.Key != "prodex:products:p1" || e.Score != 3.5 {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Fields["name"] != "Wireless Headphones" {
		t.Errorf("unexpected fields: %v", e.Fields)
	}

	assertContains(t, captured, "WITHSCORES")
	assertContains(t, captured, "DIALECT")
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), &db.TextQuery{
		IndexName: "idx",
		Query:     compiledQuery(t, "nomatch"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSearch_SyntaxErrorClassified(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Syntax error at offset 3")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.TextQuery{
		IndexName: "idx",
		Query:     compiledQuery(t, "broken"),
	})
	if !errors.Is(err, db.ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery, got %v", err)
	}
}

func TestSearch_UnreachableClassified(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.TextQuery{
		IndexName: "idx",
		Query:     compiledQuery(t, "anything"),
	})
	if !errors.Is(err, db.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	if _, err := s.Search(ctx, &db.TextQuery{Query: compiledQuery(t, "x")}); err == nil {
		t.Error("expected error for empty index name")
	}
	if _, err := s.Search(ctx, &db.TextQuery{IndexName: "idx"}); err == nil {
		t.Error("expected error for nil query")
	}
}

func TestFacet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var captured []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			captured = cmd
			return cmd[0] == "FT.AGGREGATE"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(
				mock.RedisString("category"),
				mock.RedisString("electronics"),
				mock.RedisString("count"),
				mock.RedisString("7"),
			),
			mock.RedisArray(
				mock.RedisString("category"),
				mock.RedisString("books"),
				mock.RedisString("count"),
				mock.RedisString("2"),
			),
		)))

	s := NewStoreForTest(c)
	counts, err := s.Facet(context.Background(), &db.FacetQuery{
		IndexName: "idx",
		Query:     compiledQuery(t, "bestseller"),
		Field:     "category",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 counts, got %d", len(counts))
	}
	if counts[0].Value != "electronics" || counts[0].Count != 7 {
		t.Errorf("unexpected count: %+v", counts[0])
	}

	assertContains(t, captured, "GROUPBY")
	assertContains(t, captured, "@category")
	assertContains(t, captured, "COUNT")
}

func TestSearchCount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), "idx", "*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

// --- Query string building tests ---

func TestBuildQueryString_MatchAll(t *testing.T) {
	q := compiledQuery(t, "")
	if got := buildQueryString(q); got != "*" {
		t.Errorf("expected *, got %q", got)
	}
}

func TestBuildQueryString_FilterOnly(t *testing.T) {
	cond, err := filter.NewMatch(filter.KeyCategory, "electronics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := compiledQuery(t, "", cond)

	if got := buildQueryString(q); got != "@category:{electronics}" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestBuildQueryString_TextAndFilter(t *testing.T) {
	gte, lte := 100.0, 500.0
	r, err := filter.NewRangeBounds(&gte, &lte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond, err := filter.NewRange(filter.KeyPrice, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := compiledQuery(t, "phone", cond)

	got := buildQueryString(q)
	if !strings.HasPrefix(got, "@price:[100 500] ") {
		t.Errorf("expected price filter prefix, got %q", got)
	}
	if !strings.Contains(got, "@name:(") {
		t.Errorf("expected name clause, got %q", got)
	}
}

func TestBuildQueryString_MultiFieldDisjunction(t *testing.T) {
	fields := []query.FieldSpec{
		{Name: "name", Weight: 4},
		{Name: "description", Weight: 2},
	}
	q := compiledWith(t, "phone", fields)

	got := buildQueryString(q)
	if !strings.Contains(got, "@name:(") || !strings.Contains(got, "@description:(") {
		t.Errorf("expected both field clauses, got %q", got)
	}
	if !strings.Contains(got, " | ") {
		t.Errorf("expected field disjunction, got %q", got)
	}
}

func TestBuildQueryString_TagFiltersUseTagTwins(t *testing.T) {
	tagCond, err := filter.NewMatchAny(filter.KeyTags, []string{"audio", "wireless"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	brandCond, err := filter.NewMatch(filter.KeyBrand, "soundcore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := []query.FieldSpec{
		{Name: "name", Weight: 4},
		{Name: "tags", Weight: 3},
	}
	q := compiledWith(t, "phone", fields, tagCond, brandCond)

	got := buildQueryString(q)
	// Exact filters go to the TAG twins; the tags attribute itself is TEXT
	// and only receives full-text clauses.
	if !strings.Contains(got, "@tags_tag:{audio|wireless}") {
		t.Errorf("expected tags filter on TAG twin, got %q", got)
	}
	if !strings.Contains(got, "@brand_tag:{soundcore}") {
		t.Errorf("expected brand filter on TAG twin, got %q", got)
	}
	if strings.Contains(got, "@tags:{") || strings.Contains(got, "@brand:{") {
		t.Errorf("TAG syntax must not target text attributes, got %q", got)
	}
	if !strings.Contains(got, "@tags:(") {
		t.Errorf("expected full-text clause on tags attribute, got %q", got)
	}
}

func TestTagAttribute(t *testing.T) {
	if got := tagAttribute(filter.KeyTags); got != "tags_tag" {
		t.Errorf("tags attribute = %q", got)
	}
	if got := tagAttribute(filter.KeyBrand); got != "brand_tag" {
		t.Errorf("brand attribute = %q", got)
	}
	if got := tagAttribute(filter.KeyCategory); got != "category" {
		t.Errorf("category attribute = %q", got)
	}
}

func TestTokenAlternatives_TypoGating(t *testing.T) {
	fields := []query.FieldSpec{{Name: "name", Weight: 4, Prefix: true, Typo: 2}}

	tests := []struct {
		token string
		want  string
	}{
		// below the 1-typo threshold: exact plus prefix only
		{"hd", "(hd|hd*)"},
		// 1-typo range: single fuzzy wrap
		{"phone", "(phone|phone*|%phone%)"},
		// 2-typo range: double fuzzy wrap
		{"headphones", "(headphones|headphones*|%%headphones%%)"},
	}
	for _, tc := range tests {
		q := compiledWith(t, tc.token, fields)
		got := tokenAlternatives(q, fields[0], tc.token)
		if got != tc.want {
			t.Errorf("tokenAlternatives(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestTokenAlternatives_NoPrefixNoTypo(t *testing.T) {
	fields := []query.FieldSpec{{Name: "brand", Weight: 1}}
	q := compiledWith(t, "soundcore", fields)

	if got := tokenAlternatives(q, fields[0], "soundcore"); got != "soundcore" {
		t.Errorf("expected bare token, got %q", got)
	}
}

func TestBuildTagFilter_EscapesSpecials(t *testing.T) {
	got := buildTagFilter("tags", []string{"hi-fi", "noise cancelling"})
	want := `@tags:{hi\-fi|noise\ cancelling}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildNumericFilter_OpenBounds(t *testing.T) {
	gte := 4.5
	r, err := filter.NewRangeBounds(&gte, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buildNumericFilter("rating", r); got != "@rating:[4.5 +inf]" {
		t.Errorf("unexpected filter: %q", got)
	}
}

func TestSortByArgs(t *testing.T) {
	if args := sortByArgs(query.SortRelevance); args != nil {
		t.Errorf("relevance should not add SORTBY, got %v", args)
	}
	if args := sortByArgs(query.SortRating); len(args) != 3 || args[1] != "rating" {
		t.Errorf("unexpected rating sort args: %v", args)
	}
	if args := sortByArgs(query.SortNewest); len(args) != 3 || args[1] != "created_at" {
		t.Errorf("unexpected newest sort args: %v", args)
	}
}

// --- helpers ---

func compiledQuery(t *testing.T, terms string, conds ...filter.Condition) *query.Compiled {
	t.Helper()
	fields := []query.FieldSpec{{Name: "name", Weight: 4, Prefix: true, Typo: 2}}
	return compiledWith(t, terms, fields, conds...)
}

func compiledWith(
	t *testing.T, terms string, fields []query.FieldSpec, conds ...filter.Condition,
) *query.Compiled {
	t.Helper()
	expr, err := filter.NewExpression(conds)
	if err != nil {
		t.Fatalf("build expression: %v", err)
	}
	if terms == "" {
		fields = nil
	}
	q, err := query.New(terms, fields, expr, query.SortRelevance, 0, 10, nil, 0, 0)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	return &q
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	for _, a := range args {
		if a == want {
			return
		}
	}
	t.Errorf("expected %q in args %v", want, args)
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
