// Package risk computes composite merchant risk assessments.
//
// Five component scorers each map a slice of the merchant snapshot to a
// risk score 0-100 (higher = riskier). The composite is their weighted
// sum; the weights live in internal/config alongside the level thresholds
// so the back-office screens and this package read one set of constants.
//
// Scoring never fails. Missing data scores as the worst case and is called
// out in the assessment's factors, so the risk view stays renderable for a
// brand-new merchant with an empty file.
package risk

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"corepay/internal/config"
)

// Level is the discrete risk bucket derived from the composite score.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelForScore maps a composite score to its band. Bounds are inclusive
// on the lower edge.
func LevelForScore(score int) Level {
	switch {
	case score >= config.RiskLevelCriticalFloor:
		return LevelCritical
	case score >= config.RiskLevelHighFloor:
		return LevelHigh
	case score >= config.RiskLevelMediumFloor:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Floor returns the lowest composite score that maps to the level. It is
// the representative score for events keyed on a level rather than a
// concrete assessment, so threshold filters see a score inside the band.
func (l Level) Floor() int {
	switch l {
	case LevelCritical:
		return config.RiskLevelCriticalFloor
	case LevelHigh:
		return config.RiskLevelHighFloor
	case LevelMedium:
		return config.RiskLevelMediumFloor
	default:
		return 0
	}
}

// Components holds the per-component risk scores, each 0-100.
type Components struct {
	KYCScore              int `json:"kyc_score"`
	BusinessMaturityScore int `json:"business_maturity_score"`
	TransactionScore      int `json:"transaction_score"`
	ComplianceScore       int `json:"compliance_score"`
	FlagsScore            int `json:"flags_score"`
}

// Assessment is the full result of scoring one merchant snapshot.
type Assessment struct {
	TotalScore      int        `json:"total_score"`
	Level           Level      `json:"level"`
	Components      Components `json:"components"`
	Factors         []string   `json:"factors"`
	Recommendations []string   `json:"recommendations"`
}

// Scorer computes merchant risk assessments. It is stateless and safe for
// concurrent use.
type Scorer struct{}

// NewScorer creates a new risk Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score assesses a merchant snapshot. It is deterministic and total: any
// snapshot, however partial, produces an assessment.
func (s *Scorer) Score(snap Snapshot) Assessment {
	comp := Components{
		KYCScore:              scoreKYC(snap.KYC),
		BusinessMaturityScore: scoreMaturity(snap.RegisteredAt),
		TransactionScore:      scoreActivity(snap.Activity),
		ComplianceScore:       scoreCompliance(snap.Compliance),
		FlagsScore:            scoreFlags(snap.Flags),
	}

	w := config.RiskWeights
	total := int(math.Round(
		w.KYC*float64(comp.KYCScore) +
			w.BusinessMaturity*float64(comp.BusinessMaturityScore) +
			w.Transaction*float64(comp.TransactionScore) +
			w.Compliance*float64(comp.ComplianceScore) +
			w.Flags*float64(comp.FlagsScore)))
	total = clampScore(total)

	concerning := concerningComponents(snap, comp)

	return Assessment{
		TotalScore:      total,
		Level:           LevelForScore(total),
		Components:      comp,
		Factors:         factors(concerning),
		Recommendations: recommendations(concerning),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// scoreKYC maps verification state to risk. More verified documents and a
// further-along status always push the score down.
func scoreKYC(info *KYCInfo) int {
	if info == nil {
		return 100
	}
	if info.Status == KYCStatusRejected {
		return 100
	}

	completeness := 0.0
	if info.RequiredDocuments > 0 {
		completeness = float64(info.VerifiedDocuments) / float64(info.RequiredDocuments)
		if completeness > 1 {
			completeness = 1
		}
	}
	score := int(math.Round((1 - completeness) * 100))

	// A submission still in the queue carries residual risk even with all
	// documents verified.
	switch info.Status {
	case KYCStatusApproved:
		// fully reviewed, completeness speaks for itself
	case KYCStatusReview:
		if score < 30 {
			score = 30
		}
	default:
		if score < 50 {
			score = 50
		}
	}
	return clampScore(score)
}

// maturityBands maps business age to risk; older is safer.
var maturityBands = []struct {
	minMonths int
	score     int
}{
	{60, 0},
	{36, 20},
	{24, 40},
	{12, 60},
	{6, 80},
}

func scoreMaturity(registeredAt *time.Time) int {
	if registeredAt == nil {
		return 100
	}
	months := int(time.Since(*registeredAt).Hours() / (24 * 30))
	for _, band := range maturityBands {
		if months >= band.minMonths {
			return band.score
		}
	}
	return 100
}

// volumeBands maps monthly processing volume to risk; heavier processing
// widens the blast radius.
var volumeBands = []struct {
	ceiling decimal.Decimal
	score   int
}{
	{decimal.NewFromInt(10_000), 10},
	{decimal.NewFromInt(50_000), 30},
	{decimal.NewFromInt(250_000), 55},
	{decimal.NewFromInt(1_000_000), 75},
}

func scoreActivity(info *ActivityInfo) int {
	if info == nil {
		return 100
	}
	score := 90
	for _, band := range volumeBands {
		if info.MonthlyVolume.LessThanOrEqual(band.ceiling) {
			score = band.score
			break
		}
	}
	// Very high transaction counts are a structuring signal on top of raw
	// volume.
	if info.MonthlyCount > 10_000 {
		score += 10
	}
	return clampScore(score)
}

func scoreCompliance(info *ComplianceInfo) int {
	if info == nil {
		return 100
	}
	if info.SanctionsHit {
		return 100
	}
	score := info.OpenIssues * 20
	if !info.LastReviewPassed {
		score += 30
	}
	return clampScore(score)
}

func scoreFlags(flags []Flag) int {
	if len(flags) == 0 {
		return 0
	}
	maxSeverity := 0
	for _, f := range flags {
		if f.Severity > maxSeverity {
			maxSeverity = f.Severity
		}
	}
	score := maxSeverity*15 + (len(flags)-1)*10
	return clampScore(score)
}

// component identifies one slice of the composite for factor and
// recommendation lookup.
type component int

const (
	componentKYC component = iota
	componentMaturity
	componentTransaction
	componentCompliance
	componentFlags
)

type concern struct {
	component component
	score     int
	missing   bool
}

// concerningComponents returns the components scoring above the concerning
// threshold, ordered highest risk first. Ties keep weight order so output
// stays deterministic.
func concerningComponents(snap Snapshot, comp Components) []concern {
	all := []concern{
		{componentKYC, comp.KYCScore, snap.KYC == nil},
		{componentMaturity, comp.BusinessMaturityScore, snap.RegisteredAt == nil},
		{componentTransaction, comp.TransactionScore, snap.Activity == nil},
		{componentCompliance, comp.ComplianceScore, snap.Compliance == nil},
		{componentFlags, comp.FlagsScore, false},
	}

	var concerning []concern
	for _, c := range all {
		if c.score > config.ConcerningComponentScore {
			concerning = append(concerning, c)
		}
	}
	sort.SliceStable(concerning, func(i, j int) bool {
		return concerning[i].score > concerning[j].score
	})
	return concerning
}
