package domain

// Goals holds the reference targets drawn on the dashboard. Zero
// values mean the band is not configured.
type Goals struct {
	TargetWeight float64 `toml:"target_weight" json:"targetWeight,omitempty"`
	BodyFatMin   float64 `toml:"body_fat_min" json:"bodyFatMin,omitempty"`
	BodyFatMax   float64 `toml:"body_fat_max" json:"bodyFatMax,omitempty"`
	SystolicMin  int     `toml:"systolic_min" json:"systolicMin,omitempty"`
	SystolicMax  int     `toml:"systolic_max" json:"systolicMax,omitempty"`
	DiastolicMin int     `toml:"diastolic_min" json:"diastolicMin,omitempty"`
	DiastolicMax int     `toml:"diastolic_max" json:"diastolicMax,omitempty"`
}
