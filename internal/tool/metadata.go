package tool

import (
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
)

// RiskLevel is the static danger classification on a tool. High-risk
// tools require interactive approval before each invocation.
type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskHigh RiskLevel = "high"
)

// RiskProvider is implemented by tools that declare a non-default risk.
// Tools without it are treated as read-only (RiskLow).
type RiskProvider interface {
	Risk() RiskLevel
}

type Descriptor struct {
	Definition contract.ToolDef
	Risk       RiskLevel
}

func (d Descriptor) Dangerous() bool {
	return d.Risk == RiskHigh
}

func normalizeRisk(risk RiskLevel) RiskLevel {
	switch RiskLevel(strings.TrimSpace(strings.ToLower(string(risk)))) {
	case RiskHigh:
		return RiskHigh
	default:
		return RiskLow
	}
}
