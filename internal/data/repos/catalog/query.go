package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/modules/feed"
)

func applyCandidateQuery(db *gorm.DB, dialect string, q feed.CandidateQuery) *gorm.DB {
	if q.ActiveOnly {
		db = db.Where("item.is_active = ?", true)
	}
	if len(q.ExcludeIDs) > 0 {
		db = db.Where("item.id NOT IN ?", q.ExcludeIDs)
	}
	if len(q.Genders) > 0 {
		db = db.Where("item.gender IN ?", q.Genders)
	}
	if len(q.Sizes) > 0 {
		db = db.Where(jsonArrayAny(dialect, "item.available_sizes"), q.Sizes)
	}
	if cond, args := preferenceClause(dialect, q.Preference); cond != "" {
		db = db.Where(cond, args...)
	}
	return db
}

// preferenceClause ORs every non-empty dimension of the feature set.
func preferenceClause(dialect string, f feed.FeatureSet) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if len(f.Brands) > 0 {
		conds = append(conds, "item.brand IN ?")
		args = append(args, f.Brands)
	}
	if len(f.Styles) > 0 {
		conds = append(conds, jsonArrayAny(dialect, "item.style"))
		args = append(args, f.Styles)
	}
	if len(f.Colors) > 0 {
		conds = append(conds, jsonArrayAny(dialect, "item.available_colors"))
		args = append(args, f.Colors)
	}
	if len(f.Categories) > 0 {
		conds = append(conds, "item.category IN ?")
		args = append(args, f.Categories)
	}
	if len(f.Patterns) > 0 {
		conds = append(conds, "item.pattern IN ?")
		args = append(args, f.Patterns)
	}
	for _, w := range f.Prices {
		if w.Unbounded {
			conds = append(conds, "item.price >= ?")
			args = append(args, w.Min)
			continue
		}
		conds = append(conds, "(item.price >= ? AND item.price < ?)")
		args = append(args, w.Min, w.Max)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// jsonArrayAny is true when the JSON string array in column shares a value
// with the bound list.
func jsonArrayAny(dialect, column string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS elem(v) WHERE elem.v IN ?)", column)
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN ?)", column)
}
