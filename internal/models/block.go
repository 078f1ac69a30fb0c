package models

// Category is the kind of activity a block represents. It doubles as the
// block's color key.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearn    Category = "learn"
	CategoryOther    Category = "other"
)

// Categories lists every category in picker order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryLearn,
	CategoryOther,
}

// ParseCategory maps a raw category name to a known Category. Unknown names
// map to CategoryOther.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// Block is a scheduled activity anchored at a slot label and spanning one or
// more consecutive slots.
type Block struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	StartTime string   `json:"startTime"` // HH:MM format
	Duration  int      `json:"duration"`  // minutes
	Color     Category `json:"color"`
	Notes     string   `json:"notes,omitempty"`
}
