package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority value.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank is the single total order for priorities: high sorts before
// medium, medium before low. Every sort derives from this function.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// PriorityRankExpr returns the SQL CASE expression mapping the priority
// column onto its rank. It is generated from the enum constants only and
// carries no user input.
func PriorityRankExpr() string {
	var b strings.Builder
	b.WriteString("CASE priority")
	for _, p := range Priorities {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", p, p.Rank())
	}
	b.WriteString(" END")
	return b.String()
}

type Task struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	Completed   bool       `gorm:"not null;default:false;index"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:'medium';index;check:priority IN ('low','medium','high')"`
	DueDate     *time.Time `gorm:"index"`
	OwnerID     uint       `gorm:"not null;index"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Overdue reports whether the task's due date has already passed,
// compared at day granularity: due yesterday is overdue, due any time
// today is not.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := t.DueDate.In(now.Location()).Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}
