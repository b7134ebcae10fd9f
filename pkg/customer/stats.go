package customer

// DailyCount is the number of customers created on one day.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// LetterCount is the number of customers in a letter tier.
type LetterCount struct {
	Letter string `json:"letter"`
	Count  int    `json:"count"`
}

// LevelCount is the number of customers in a level tier.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// DashboardStats is an aggregate snapshot of the customer base.
type DashboardStats struct {
	Daily    []DailyCount  `json:"daily"`
	Letters  []LetterCount `json:"letters"`
	Levels   []LevelCount  `json:"levels"`
	Total    int           `json:"total"`
	NewToday int           `json:"newToday"`
}

// MaxDaily returns the largest daily count, or zero for an empty series.
func (s *DashboardStats) MaxDaily() int {
	m := 0
	for _, d := range s.Daily {
		m = max(m, d.Count)
	}

	return m
}
