package retrieval

// SearchInput 检索输入。
type SearchInput struct {
	ReportID  string
	CompanyID string
	Query     string
	TopK      int

	IncludeEmbedding bool
}

// Match 单条检索命中，保持引擎返回顺序。
type Match struct {
	ID       string
	Distance float64
	Text     string
}

// SearchOutput 检索输出。空 Matches 是合法的降级结果。
type SearchOutput struct {
	Matches []Match

	DisabledReason string
	QueryEmbedding []float32
}
