package model

import "math"

// Record is one row of the survey dataset.
// DataValue is NaN when the source cell was empty.
type Record struct {
	YearStart               int     `json:"YearStart"`
	YearEnd                 int     `json:"YearEnd"`
	LocationDesc            string  `json:"LocationDesc"`
	Question                string  `json:"Question"`
	DataValue               float64 `json:"Data_Value"`
	StratificationCategory1 string  `json:"StratificationCategory1"`
	Stratification1         string  `json:"Stratification1"`
}

// HasValue reports whether the record carries a numeric Data_Value.
func (r *Record) HasValue() bool {
	return !math.IsNaN(r.DataValue)
}
