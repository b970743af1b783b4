// Package query builds filtered, paginated, deterministically ordered
// task listings and aggregate statistics, always scoped to one owner.
package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/models"
	"github.com/CarlosSilva09/TaskFlow/internal/types"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// Search terms shorter than this after trimming are ignored rather
	// than rejected. This is a usability clamp, not a correctness rule:
	// one-character searches match almost everything and help nobody.
	minSearchLen = 2
)

// Engine answers listing and statistics queries against the task table.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// ListParams are the optional listing filters after boundary validation.
// Completed and Priority are tri-state: nil means no filter.
type ListParams struct {
	Completed *bool
	Priority  *models.Priority
	Search    string
	Page      int
	Limit     int
}

// Normalize clamps pagination to safe values and drops search terms too
// short to be useful. Out-of-range page and limit are coerced, never
// rejected: pagination is a usability knob, not a correctness input, and
// the limit cap protects the store from unbounded scans.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	if utf8.RuneCountInString(p.Search) < minSearchLen {
		p.Search = ""
	}
}

// scope applies the owner guard and every active filter. The same scope
// feeds both the row count and the page fetch, so the two can never
// disagree. All user values travel as bound parameters.
func (p ListParams) scope(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)

		if p.Completed != nil {
			db = db.Where("completed = ?", *p.Completed)
		}

		if p.Priority != nil {
			db = db.Where("priority = ?", *p.Priority)
		}

		if p.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(p.Search)) + "%"
			db = db.Where(
				"(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')",
				pattern, pattern,
			)
		}

		return db
	}
}

// escapeLike neutralizes LIKE metacharacters so a search box never
// behaves as a wildcard language.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// List returns one page of the owner's tasks plus pagination metadata.
// Ordering is priority rank first (high before medium before low), then
// creation time descending, with id as a final stable tiebreak. An empty
// result is a valid page with Total zero.
func (e *Engine) List(ownerID uint, params ListParams) ([]models.Task, types.Pagination, error) {
	params.Normalize()

	var total int64

	if err := e.db.Model(&models.Task{}).Scopes(params.scope(ownerID)).Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []models.Task
	offset := (params.Page - 1) * params.Limit

	if err := e.db.Model(&models.Task{}).Scopes(params.scope(ownerID)).
		Order(models.PriorityRankExpr()).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(params.Limit).
		Find(&tasks).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	meta := types.Pagination{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}

	return tasks, meta, nil
}

// Stats is the aggregate view of one owner's tasks. Pending is derived
// from total minus completed so the two can never drift apart.
type Stats struct {
	Total      int64                     `json:"total"`
	Completed  int64                     `json:"completed"`
	Pending    int64                     `json:"pending"`
	ByPriority map[models.Priority]int64 `json:"byPriority"`
}

// Stats aggregates the owner's tasks. The priority breakdown always
// carries all three keys, zeroes included, so the shape is stable even
// for an owner with no tasks.
func (e *Engine) Stats(ownerID uint) (Stats, error) {
	stats := Stats{ByPriority: make(map[models.Priority]int64, len(models.Priorities))}
	for _, p := range models.Priorities {
		stats.ByPriority[p] = 0
	}

	if err := e.db.Model(&models.Task{}).Where("owner_id = ?", ownerID).Count(&stats.Total).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	if err := e.db.Model(&models.Task{}).Where("owner_id = ? AND completed = ?", ownerID, true).Count(&stats.Completed).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	stats.Pending = stats.Total - stats.Completed

	var rows []struct {
		Priority models.Priority
		Count    int64
	}

	if err := e.db.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("priority").
		Scan(&rows).Error; err != nil {
		return Stats{}, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	for _, row := range rows {
		stats.ByPriority[row.Priority] = row.Count
	}

	return stats, nil
}
