package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// DefaultCategories are the stat buckets every new account starts with.
var DefaultCategories = []string{"strength", "stamina", "intelligence", "agility", "general"}

// Stats maps a category name to the points earned in it. Keys beyond
// DefaultCategories are allowed; they appear the first time a task of that
// category is completed.
type Stats map[string]int

// NewStats returns a Stats with every default category set to zero.
func NewStats() Stats {
	s := make(Stats, len(DefaultCategories))
	for _, c := range DefaultCategories {
		s[c] = 0
	}
	return s
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Value stores the map as JSONB.
func (s Stats) Value() (driver.Value, error) {
	if s == nil {
		s = Stats{}
	}
	b, err := json.Marshal(map[string]int(s))
	if err != nil {
		return nil, fmt.Errorf("stats value: %w", err)
	}
	return string(b), nil
}

// Scan reads a JSONB column. NULL becomes an empty map.
func (s *Stats) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Stats{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("stats scan: unsupported type %T", src)
	}
	m := map[string]int{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("stats scan: %w", err)
	}
	*s = Stats(m)
	return nil
}

// Account is a user's identity and progression state.
type Account struct {
	ID           int    `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	TotalPoints  int    `json:"totalPoints"`
	CurrentLevel int    `json:"currentLevel"`
	Stats        Stats  `json:"stats"`
}

// Task is a unit of work owned by one account. Points and Category are fixed
// at creation; Completed only ever moves from false to true.
type Task struct {
	ID                string `json:"id"`
	UserID            int    `json:"user_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Difficulty        string `json:"difficulty"`
	DifficultyText    string `json:"difficulty_text"`
	Category          string `json:"category"`
	CategoryText      string `json:"category_text"`
	CategoryIconClass string `json:"category_icon_class"`
	Points            int    `json:"points"`
	Completed         bool   `json:"completed"`
}
