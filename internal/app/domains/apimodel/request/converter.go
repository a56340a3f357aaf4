package request

import "irap/analyzer/internal/analysis/scoring"

// ToQuestionnaire 从请求 DTO 转换为领域对象，未填问卷返回 nil
func (r *AnalyzeRequest) ToQuestionnaire() *scoring.Questionnaire {
	if r.Questionnaire == nil {
		return nil
	}
	return &scoring.Questionnaire{
		Webhooks:   r.Questionnaire.Webhooks,
		SandboxEnv: r.Questionnaire.SandboxEnv,
		Retries:    r.Questionnaire.Retries,
	}
}
