package db

import (
	"strings"
	"testing"
)

func TestPlanArticleListPriority(t *testing.T) {
	base := ArticleListOptions{SiteTag: "noticias.lat", Page: 1, PageSize: 12}

	t.Run("search wins over everything", func(t *testing.T) {
		opts := base
		opts.Query = "elecciones"
		opts.Country = "MX"
		opts.Category = "deportes"

		plan := planArticleList(opts)
		if plan.Mode != FilterModeSearch {
			t.Fatalf("expected search mode, got %s", plan.Mode)
		}
		if !strings.Contains(plan.Where, "websearch_to_tsquery") {
			t.Fatalf("search plan must use FTS, got %q", plan.Where)
		}
		if !strings.Contains(plan.OrderBy, "ts_rank") {
			t.Fatalf("search plan must order by relevance, got %q", plan.OrderBy)
		}
		if strings.Contains(plan.Where, "country") || strings.Contains(plan.Where, "category") {
			t.Fatalf("filters must not combine, got %q", plan.Where)
		}
	})

	t.Run("country wins over category", func(t *testing.T) {
		opts := base
		opts.Country = "mx"
		opts.Category = "deportes"

		plan := planArticleList(opts)
		if plan.Mode != FilterModeCountry {
			t.Fatalf("expected country mode, got %s", plan.Mode)
		}
		if plan.Args[1] != "MX" {
			t.Fatalf("country must be uppercased, got %v", plan.Args[1])
		}
		if plan.OrderBy != recencyOrder {
			t.Fatalf("country plan must order by recency, got %q", plan.OrderBy)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		opts := base
		opts.Category = "Deportes"

		plan := planArticleList(opts)
		if plan.Mode != FilterModeCategory {
			t.Fatalf("expected category mode, got %s", plan.Mode)
		}
		if plan.Args[1] != "deportes" {
			t.Fatalf("category must be lowercased, got %v", plan.Args[1])
		}
	})

	t.Run("all sentinel means no category filter", func(t *testing.T) {
		opts := base
		opts.Category = "all"

		plan := planArticleList(opts)
		if plan.Mode != FilterModeRecent {
			t.Fatalf("expected recent mode for the all sentinel, got %s", plan.Mode)
		}
	})

	t.Run("default is recency", func(t *testing.T) {
		plan := planArticleList(base)
		if plan.Mode != FilterModeRecent {
			t.Fatalf("expected recent mode, got %s", plan.Mode)
		}
		if plan.Where != "WHERE site_tag = $1" {
			t.Fatalf("recent plan must only scope by site, got %q", plan.Where)
		}
	})
}

func TestPlanArticleListAlwaysScopedBySite(t *testing.T) {
	for _, opts := range []ArticleListOptions{
		{SiteTag: "s", Query: "q"},
		{SiteTag: "s", Country: "MX"},
		{SiteTag: "s", Category: "c"},
		{SiteTag: "s"},
	} {
		plan := planArticleList(opts)
		if !strings.Contains(plan.Where, "site_tag = $1") {
			t.Fatalf("plan %s must scope by site, got %q", plan.Mode, plan.Where)
		}
		if plan.Args[0] != "s" {
			t.Fatalf("first arg must be the site tag, got %v", plan.Args[0])
		}
	}
}

func TestPlanGameList(t *testing.T) {
	plan := planGameList(GameListOptions{Query: "puzzle", Category: "arcade"})
	if plan.Mode != FilterModeSearch {
		t.Fatalf("expected search mode, got %s", plan.Mode)
	}

	plan = planGameList(GameListOptions{Category: "Arcade"})
	if plan.Mode != FilterModeCategory || plan.Args[0] != "arcade" {
		t.Fatalf("unexpected category plan: %s %v", plan.Mode, plan.Args)
	}

	plan = planGameList(GameListOptions{})
	if plan.Mode != FilterModeRecent || plan.Where != "" {
		t.Fatalf("unexpected default plan: %s %q", plan.Mode, plan.Where)
	}
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 12, 0},
		{2, 5, 5},
		{3, 5, 10},
		{0, 12, 0},
	}
	for _, tt := range tests {
		if got := pageOffset(tt.page, tt.size); got != tt.want {
			t.Fatalf("pageOffset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{12, 5, 3},
		{12, 12, 1},
		{13, 12, 2},
		{0, 12, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
