package risk

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corepay/internal/config"
)

func cleanSnapshot() Snapshot {
	registered := time.Now().AddDate(-6, 0, 0)
	return Snapshot{
		MerchantID:   1,
		KYC:          &KYCInfo{Status: KYCStatusApproved, VerifiedDocuments: 4, RequiredDocuments: 4},
		RegisteredAt: &registered,
		Activity:     &ActivityInfo{MonthlyVolume: decimal.NewFromInt(5_000), MonthlyCount: 120},
		Compliance:   &ComplianceInfo{SanctionsHit: false, OpenIssues: 0, LastReviewPassed: true},
		Flags:        nil,
	}
}

func TestWeightsSumToOne(t *testing.T) {
	w := config.RiskWeights
	sum := w.KYC + w.BusinessMaturity + w.Transaction + w.Compliance + w.Flags
	assert.InDelta(t, 1.00, sum, 1e-9)
}

func TestScoreBestAndWorstCase(t *testing.T) {
	scorer := NewScorer()

	best := scorer.Score(cleanSnapshot())
	assert.Equal(t, LevelLow, best.Level)
	assert.Empty(t, best.Factors)
	assert.Empty(t, best.Recommendations)

	worst := scorer.Score(Snapshot{
		MerchantID: 2,
		Flags: []Flag{
			{Severity: 5, Reason: "chargeback spike"},
			{Severity: 4, Reason: "sanctions review"},
			{Severity: 3, Reason: "identity mismatch"},
		},
	})
	assert.Equal(t, LevelCritical, worst.Level)
	assert.Equal(t, 100, worst.Components.KYCScore)
	assert.NotEmpty(t, worst.Factors)
	assert.NotEmpty(t, worst.Recommendations)
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()
	registered := time.Now().AddDate(0, -3, 0)

	snapshots := []Snapshot{
		{},
		cleanSnapshot(),
		{KYC: &KYCInfo{Status: KYCStatusPending}},
		{RegisteredAt: &registered, Flags: []Flag{{Severity: 5}, {Severity: 5}, {Severity: 5}, {Severity: 5}}},
		{Compliance: &ComplianceInfo{SanctionsHit: true}},
		{Activity: &ActivityInfo{MonthlyVolume: decimal.NewFromInt(50_000_000), MonthlyCount: 1_000_000}},
	}

	for _, snap := range snapshots {
		a := scorer.Score(snap)
		assert.GreaterOrEqual(t, a.TotalScore, 0)
		assert.LessOrEqual(t, a.TotalScore, 100)
		for _, c := range []int{
			a.Components.KYCScore, a.Components.BusinessMaturityScore,
			a.Components.TransactionScore, a.Components.ComplianceScore,
			a.Components.FlagsScore,
		} {
			assert.GreaterOrEqual(t, c, 0)
			assert.LessOrEqual(t, c, 100)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer()
	snap := cleanSnapshot()
	snap.Flags = []Flag{{Severity: 4, Reason: "manual review"}}
	snap.Compliance.OpenIssues = 2

	first := scorer.Score(snap)
	second := scorer.Score(snap)
	assert.Equal(t, first, second)
}

func TestScoreMissingKYC(t *testing.T) {
	scorer := NewScorer()
	snap := cleanSnapshot()
	snap.KYC = nil

	a := scorer.Score(snap)
	assert.Equal(t, 100, a.Components.KYCScore)
	assert.Contains(t, a.Factors, "No KYC data available")
	assert.Contains(t, a.Recommendations, "Request additional KYC documents")
}

func TestFactorsOrderedByRisk(t *testing.T) {
	scorer := NewScorer()
	registered := time.Now().AddDate(-2, -6, 0) // maturity 40, below concern
	a := scorer.Score(Snapshot{
		KYC:          nil, // 100
		RegisteredAt: &registered,
		Activity:     &ActivityInfo{MonthlyVolume: decimal.NewFromInt(100_000)}, // 55
		Compliance:   &ComplianceInfo{OpenIssues: 2, LastReviewPassed: false},   // 70
		Flags:        nil,
	})

	require.Equal(t, []string{
		"No KYC data available",
		"Compliance review has outstanding issues",
		"Transaction volume is elevated for this profile",
	}, a.Factors)
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{0, LevelLow},
		{24, LevelLow},
		{25, LevelMedium},
		{49, LevelMedium},
		{50, LevelHigh},
		{74, LevelHigh},
		{75, LevelCritical},
		{100, LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestLevelFloorRoundTrips(t *testing.T) {
	for _, level := range []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical} {
		assert.Equal(t, level, LevelForScore(level.Floor()), "level %s", level)
	}
	assert.Equal(t, config.RiskLevelCriticalFloor, LevelCritical.Floor())
	assert.Equal(t, 0, Level("").Floor())
}

func TestScoreKYCMonotonicInDocuments(t *testing.T) {
	prev := 101
	for verified := 0; verified <= 4; verified++ {
		got := scoreKYC(&KYCInfo{Status: KYCStatusApproved, VerifiedDocuments: verified, RequiredDocuments: 4})
		assert.LessOrEqual(t, got, prev, "verified=%d", verified)
		prev = got
	}
}

func TestScoreFlags(t *testing.T) {
	assert.Equal(t, 0, scoreFlags(nil))
	assert.Equal(t, 15, scoreFlags([]Flag{{Severity: 1}}))
	assert.Equal(t, 85, scoreFlags([]Flag{{Severity: 5}, {Severity: 1}}))
	assert.Equal(t, 100, scoreFlags([]Flag{{Severity: 5}, {Severity: 5}, {Severity: 5}, {Severity: 5}}))
}
