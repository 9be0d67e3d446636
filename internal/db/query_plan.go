package db

import (
	"fmt"
	"strings"
)

// FilterMode identifies which filter rule won for a list request. Priority:
// free-text search, then country, then category, then plain recency.
type FilterMode string

const (
	FilterModeSearch   FilterMode = "search"
	FilterModeCountry  FilterMode = "country"
	FilterModeCategory FilterMode = "category"
	FilterModeRecent   FilterMode = "recent"
)

// CategoryAll is the sentinel category value meaning "no category filter".
const CategoryAll = "all"

const searchVectorSQL = `to_tsvector('spanish', title || ' ' || short_description || ' ' || COALESCE(enriched_body, ''))`

type listPlan struct {
	Mode    FilterMode
	Where   string
	OrderBy string
	Args    []any
}

type ArticleListOptions struct {
	SiteTag  string
	Category string
	Country  string
	Query    string
	Page     int
	PageSize int
}

type GameListOptions struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

// planArticleList builds the WHERE/ORDER BY pair for an article list request.
// Every article query is scoped to one site tag; the remaining filters apply
// in strict priority order, never combined.
func planArticleList(opts ArticleListOptions) listPlan {
	args := []any{strings.TrimSpace(opts.SiteTag)}
	where := "WHERE site_tag = $1"

	query := strings.TrimSpace(opts.Query)
	country := strings.TrimSpace(opts.Country)
	category := normalizeCategory(opts.Category)

	switch {
	case query != "":
		args = append(args, query)
		where += fmt.Sprintf(" AND %s @@ websearch_to_tsquery('spanish', $2)", searchVectorSQL)
		orderBy := fmt.Sprintf("ORDER BY ts_rank(%s, websearch_to_tsquery('spanish', $2)) DESC, id DESC", searchVectorSQL)
		return listPlan{Mode: FilterModeSearch, Where: where, OrderBy: orderBy, Args: args}
	case country != "":
		args = append(args, strings.ToUpper(country))
		where += " AND country = $2"
		return listPlan{Mode: FilterModeCountry, Where: where, OrderBy: recencyOrder, Args: args}
	case category != "":
		args = append(args, category)
		where += " AND category = $2"
		return listPlan{Mode: FilterModeCategory, Where: where, OrderBy: recencyOrder, Args: args}
	default:
		return listPlan{Mode: FilterModeRecent, Where: where, OrderBy: recencyOrder, Args: args}
	}
}

// planGameList is the games analogue; games have no site or country scope.
func planGameList(opts GameListOptions) listPlan {
	query := strings.TrimSpace(opts.Query)
	category := normalizeCategory(opts.Category)

	switch {
	case query != "":
		where := fmt.Sprintf("WHERE %s @@ websearch_to_tsquery('spanish', $1)", searchVectorSQL)
		orderBy := fmt.Sprintf("ORDER BY ts_rank(%s, websearch_to_tsquery('spanish', $1)) DESC, id DESC", searchVectorSQL)
		return listPlan{Mode: FilterModeSearch, Where: where, OrderBy: orderBy, Args: []any{query}}
	case category != "":
		return listPlan{Mode: FilterModeCategory, Where: "WHERE category = $1", OrderBy: recencyOrder, Args: []any{category}}
	default:
		return listPlan{Mode: FilterModeRecent, Where: "", OrderBy: recencyOrder, Args: nil}
	}
}

const recencyOrder = "ORDER BY published_at DESC, id DESC"

// normalizeCategory lowercases the tag and maps the "all" sentinel to "".
func normalizeCategory(raw string) string {
	category := strings.ToLower(strings.TrimSpace(raw))
	if category == CategoryAll {
		return ""
	}
	return category
}

// pageOffset converts 1-indexed pagination into a row offset.
func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// TotalPages computes ceil(total/pageSize) for response envelopes.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
