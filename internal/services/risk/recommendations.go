package risk

// Factor and recommendation text per component. Derived text only; the
// scorer never persists or mutates anything.

var factorText = map[component]string{
	componentKYC:         "KYC verification is incomplete",
	componentMaturity:    "Business has a short operating history",
	componentTransaction: "Transaction volume is elevated for this profile",
	componentCompliance:  "Compliance review has outstanding issues",
	componentFlags:       "Account carries active risk flags",
}

var missingFactorText = map[component]string{
	componentKYC:         "No KYC data available",
	componentMaturity:    "No business registration date on file",
	componentTransaction: "No transaction history available",
	componentCompliance:  "No compliance screening on record",
}

var recommendationText = map[component]string{
	componentKYC:         "Request additional KYC documents",
	componentMaturity:    "Apply new-business transaction limits until a track record exists",
	componentTransaction: "Review recent transactions for volume anomalies",
	componentCompliance:  "Escalate to the compliance team for manual review",
	componentFlags:       "Resolve or re-confirm the active risk flags",
}

func factors(concerning []concern) []string {
	out := make([]string, 0, len(concerning))
	for _, c := range concerning {
		if c.missing {
			out = append(out, missingFactorText[c.component])
			continue
		}
		out = append(out, factorText[c.component])
	}
	return out
}

func recommendations(concerning []concern) []string {
	out := make([]string, 0, len(concerning))
	for _, c := range concerning {
		out = append(out, recommendationText[c.component])
	}
	return out
}
