// ABOUTME: Body metric readings and the metric definition catalog.
// ABOUTME: Defines the default catalog seeded into every new database.
package models

// MetricDefinition is a catalog entry describing a kind of body metric.
type MetricDefinition struct {
	Index string `json:"metric_index" yaml:"metric_index"`
	Name  string `json:"metric_name" yaml:"metric_name"`
	Unit  string `json:"metric_unit" yaml:"metric_unit"`
}

// Metric indexes of the default catalog.
const (
	// Biometrics
	MetricWeight      = "weight"
	MetricHeight      = "height"
	MetricBodyFat     = "body_fat"
	MetricWaist       = "waist"
	MetricBPSys       = "bp_sys"
	MetricBPDia       = "bp_dia"
	MetricHeartRate   = "heart_rate"
	MetricHRV         = "hrv"
	MetricTemperature = "temperature"

	// Activity
	MetricSteps      = "steps"
	MetricSleepHours = "sleep_hours"

	// Nutrition
	MetricWater = "water"

	// Mental Health
	MetricMood   = "mood"
	MetricStress = "stress"
)

// DefaultMetricDefinitions is the catalog seeded on schema initialization.
var DefaultMetricDefinitions = []MetricDefinition{
	{MetricWeight, "Weight", "kg"},
	{MetricHeight, "Height", "cm"},
	{MetricBodyFat, "Body fat", "%"},
	{MetricWaist, "Waist circumference", "cm"},
	{MetricBPSys, "Blood pressure (systolic)", "mmHg"},
	{MetricBPDia, "Blood pressure (diastolic)", "mmHg"},
	{MetricHeartRate, "Resting heart rate", "bpm"},
	{MetricHRV, "Heart rate variability", "ms"},
	{MetricTemperature, "Body temperature", "°C"},
	{MetricSteps, "Steps", "steps"},
	{MetricSleepHours, "Sleep", "hours"},
	{MetricWater, "Water intake", "ml"},
	{MetricMood, "Mood", "scale"},
	{MetricStress, "Stress", "scale"},
}

// BodyMetric is a single reading, keyed by (UserID, Timestamp, Index).
// Name and Unit are filled from the catalog when listing.
type BodyMetric struct {
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`
	Index     string    `json:"metric_index" yaml:"metric_index"`
	Value     float64   `json:"value" yaml:"value"`
	Name      string    `json:"metric_name,omitempty" yaml:"metric_name,omitempty"`
	Unit      string    `json:"metric_unit,omitempty" yaml:"metric_unit,omitempty"`
}

// NewBodyMetric creates a reading stamped with the current time.
func NewBodyMetric(userID int64, index string, value float64) *BodyMetric {
	return &BodyMetric{
		UserID:    userID,
		Timestamp: Now(),
		Index:     index,
		Value:     value,
	}
}

// WithTimestamp overrides the reading's timestamp.
func (m *BodyMetric) WithTimestamp(ts Timestamp) *BodyMetric {
	m.Timestamp = ts
	return m
}
