package merchantreview

import (
	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/services/risk"
)

// SnapshotBuilder maps persisted merchant rows onto scorer snapshots.
// Absent data maps to nil sections here, at the boundary, so the scorers
// stay free of storage concerns. The analytics and compliance screens
// share it, so merchants score identically wherever they are scored.
type SnapshotBuilder struct {
	merchants repositories.MerchantRepository
	kyc       repositories.KYCRepository
}

func NewSnapshotBuilder(merchants repositories.MerchantRepository, kyc repositories.KYCRepository) *SnapshotBuilder {
	return &SnapshotBuilder{merchants: merchants, kyc: kyc}
}

// ForMerchant builds one merchant's snapshot with per-row lookups. Flags
// are passed in because the risk detail screen fetches them anyway.
func (b *SnapshotBuilder) ForMerchant(m *models.Merchant, flags []models.RiskFlag) risk.Snapshot {
	var sub *models.KYCSubmission
	if latest, err := b.kyc.LatestForMerchant(m.ID); err == nil {
		sub = latest
	}
	var status *models.ComplianceStatus
	if st, err := b.merchants.ComplianceStatus(m.ID); err == nil {
		status = st
	}
	return buildSnapshot(m, sub, status, flags)
}

// ForPage builds snapshots for a page of merchants with three batched
// queries instead of three queries per merchant. The result is keyed by
// merchant ID.
func (b *SnapshotBuilder) ForPage(merchants []models.Merchant) (map[uint]risk.Snapshot, error) {
	ids := make([]uint, len(merchants))
	for i := range merchants {
		ids[i] = merchants[i].ID
	}

	subs, err := b.kyc.LatestForMerchants(ids)
	if err != nil {
		return nil, err
	}
	statuses, err := b.merchants.ComplianceStatuses(ids)
	if err != nil {
		return nil, err
	}
	flags, err := b.merchants.ActiveFlagsForMerchants(ids)
	if err != nil {
		return nil, err
	}

	snaps := make(map[uint]risk.Snapshot, len(merchants))
	for i := range merchants {
		m := &merchants[i]
		var sub *models.KYCSubmission
		if s, ok := subs[m.ID]; ok {
			sub = &s
		}
		var status *models.ComplianceStatus
		if st, ok := statuses[m.ID]; ok {
			status = &st
		}
		snaps[m.ID] = buildSnapshot(m, sub, status, flags[m.ID])
	}
	return snaps, nil
}

func buildSnapshot(m *models.Merchant, sub *models.KYCSubmission, status *models.ComplianceStatus, flags []models.RiskFlag) risk.Snapshot {
	snap := risk.Snapshot{
		MerchantID:   m.ID,
		RegisteredAt: m.RegisteredAt,
	}
	if sub != nil {
		snap.KYC = &risk.KYCInfo{
			Status:            sub.Status,
			VerifiedDocuments: sub.VerifiedDocumentCount(),
			RequiredDocuments: sub.RequiredDocuments,
		}
	}
	if m.MonthlyTxnCount > 0 || !m.MonthlyVolume.IsZero() {
		snap.Activity = &risk.ActivityInfo{MonthlyVolume: m.MonthlyVolume, MonthlyCount: m.MonthlyTxnCount}
	}
	if status != nil {
		snap.Compliance = &risk.ComplianceInfo{
			SanctionsHit:     status.SanctionsHit,
			OpenIssues:       status.OpenIssues,
			LastReviewPassed: status.LastReviewPassed,
		}
	}
	for _, f := range flags {
		snap.Flags = append(snap.Flags, risk.Flag{Severity: f.Severity, Reason: f.Reason})
	}
	return snap
}
