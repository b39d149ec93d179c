package config

// Platform-wide scoring and fee constants. Screens used to carry their own
// copies of these literals; this is the single source of truth now.

// RiskWeights are the component weights of the composite merchant risk
// score. They must sum to 1.00.
var RiskWeights = struct {
	KYC              float64
	BusinessMaturity float64
	Transaction      float64
	Compliance       float64
	Flags            float64
}{
	KYC:              0.30,
	BusinessMaturity: 0.20,
	Transaction:      0.25,
	Compliance:       0.15,
	Flags:            0.10,
}

// Risk level band boundaries, inclusive on the lower edge.
const (
	RiskLevelCriticalFloor = 75
	RiskLevelHighFloor     = 50
	RiskLevelMediumFloor   = 25
)

// ConcerningComponentScore is the per-component risk score above which the
// component is named in an assessment's factors.
const ConcerningComponentScore = 50

// DefaultFeeCurrency is the settlement currency new tenants start with.
const DefaultFeeCurrency = "USD"

// FeeScheduleDefault is one corridor's seed schedule. Amounts are decimal
// strings; the settings service parses them into a calculator schedule so
// this package stays a leaf with no internal imports.
type FeeScheduleDefault struct {
	Percentage string
	Fixed      string
	Minimum    string
	Maximum    string
	Currency   string
}

// DefaultFeeSchedules seed a tenant's fee configuration, keyed by corridor
// name, before an operator has touched the settings screen.
var DefaultFeeSchedules = map[string]FeeScheduleDefault{
	"domestic": {
		Percentage: "2.5",
		Fixed:      "0.30",
		Minimum:    "0.10",
		Maximum:    "50.00",
		Currency:   DefaultFeeCurrency,
	},
	"international": {
		Percentage: "3.9",
		Fixed:      "0.30",
		Minimum:    "0.50",
		Maximum:    "75.00",
		Currency:   DefaultFeeCurrency,
	},
}
