package request

// AnalyzeRequest 触发分析请求（DTO）
type AnalyzeRequest struct {
	UploadID      string                `json:"uploadId" binding:"required"`
	Questionnaire *QuestionnaireRequest `json:"questionnaire"`
}

// QuestionnaireRequest 对接就绪度问卷（DTO）
type QuestionnaireRequest struct {
	Webhooks   bool `json:"webhooks"`
	SandboxEnv bool `json:"sandbox_env"`
	Retries    bool `json:"retries"`
}
