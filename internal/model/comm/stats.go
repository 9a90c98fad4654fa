package comm

// LanguageShare is one bucket of the inquiry language distribution.
type LanguageShare struct {
	Language   string `json:"language"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DashboardStats aggregates a user's inquiries and responses for the
// dashboard. Recomputed on demand, never cached.
type DashboardStats struct {
	TotalInquiries       int             `json:"totalInquiries"`
	AutoResponses        int             `json:"autoResponses"`
	AvgResponseTime      int64           `json:"avgResponseTime"`
	LanguageDistribution []LanguageShare `json:"languageDistribution"`
}
