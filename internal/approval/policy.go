package approval

import (
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/config"
	"github.com/kaiwa-ai/kaiwa/internal/tool"
)

// Policy decides which tool calls need interactive confirmation. A
// tool's declared risk is the default; governance config entries
// override it in either direction.
type Policy struct {
	autoAllow       map[string]struct{}
	requireApproval map[string]struct{}
}

func NewPolicy(cfg config.GovernanceConfig) *Policy {
	return &Policy{
		autoAllow:       toSet(cfg.AutoAllow),
		requireApproval: toSet(cfg.RequireApproval),
	}
}

func (p *Policy) RequiresApproval(name string, risk tool.RiskLevel) bool {
	name = strings.TrimSpace(name)
	if _, ok := p.requireApproval[name]; ok {
		return true
	}
	if _, ok := p.autoAllow[name]; ok {
		return false
	}
	return risk == tool.RiskHigh
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
