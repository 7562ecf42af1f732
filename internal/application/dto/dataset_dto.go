package dto

import "time"

// ExportRFMRequest is the input DTO for writing a customer RFM table.
type ExportRFMRequest struct {
	Snapshot       time.Time      `json:"snapshot,omitempty"`
	SnapshotOffset *time.Duration `json:"snapshot_offset,omitempty"`
	InputPath      string         `json:"input_path"`
	OutputPath     string         `json:"output_path"`
	ValueColumn    string         `json:"value_column,omitempty"`
}

// ExportRFMResponse reports what an RFM export wrote.
type ExportRFMResponse struct {
	Snapshot   time.Time `json:"snapshot"`
	OutputPath string    `json:"output_path"`
	Customers  int       `json:"customers"`
}

// BuildFeaturesRequest is the input DTO for feature engineering.
type BuildFeaturesRequest struct {
	InputPath   string `json:"input_path"`
	OutputPath  string `json:"output_path"`
	ValueColumn string `json:"value_column,omitempty"`
}

// BuildFeaturesResponse reports the shape of the engineered table.
type BuildFeaturesResponse struct {
	OutputPath string   `json:"output_path"`
	Columns    []string `json:"columns"`
	Rows       int      `json:"rows"`
	Customers  int      `json:"customers"`
}

// SplitDatasetRequest is the input DTO for the train/test split. Zero values
// fall back to a 20% test fraction, seed 42 and the is_high_risk target.
type SplitDatasetRequest struct {
	Seed         *int64  `json:"seed,omitempty"`
	InputPath    string  `json:"input_path"`
	TrainPath    string  `json:"train_path"`
	TestPath     string  `json:"test_path"`
	TargetColumn string  `json:"target_column,omitempty"`
	TestFraction float64 `json:"test_fraction,omitempty"`
}

// SplitDatasetResponse reports the partition sizes.
type SplitDatasetResponse struct {
	TrainPath string `json:"train_path"`
	TestPath  string `json:"test_path"`
	TrainRows int    `json:"train_rows"`
	TestRows  int    `json:"test_rows"`
}
