package config

// GenAIConfig contains generation backend configuration.
// An empty APIKey disables generation: interpretation degrades to raw text,
// explanations return the unavailable sentinel, and llm extraction fails jobs.
type GenAIConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL"  envDefault:"gemini-2.5-flash"`
}

// Enabled reports whether a generation backend is configured.
func (g *GenAIConfig) Enabled() bool {
	return g.APIKey != ""
}
