package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ScoreResult is the verdict of the resume oracle.
type ScoreResult struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ScoreOracle rates a resume against a job description. Implementations may
// fail; callers on the apply/offer path must degrade rather than propagate.
type ScoreOracle interface {
	ScoreResume(ctx context.Context, resumeText, jobDescription string) (ScoreResult, error)
}

// LLMService is the Gemini-backed ScoreOracle.
type LLMService struct {
	Client llms.Model
}

// NewLLMService initializes the Gemini client.
func NewLLMService(apiKey string) (*LLMService, error) {
	ctx := context.Background()
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const resumeScorePrompt = `
Act as an expert Recruiter. Analyze the following RESUME TEXT against the job context.

RESUME TEXT:
%s

JOB CONTEXT:
%s

Task:
1. Score the resume (0-100) based on quality, clarity, metrics, and fit for the job context.
2. Provide a 1-sentence feedback summary.

Output ONLY a raw JSON object (no markdown) with this structure:
{ "score": number, "reason": "string" }
`

const maxResumeChars = 15000

// ScoreResume sends the resume text to Gemini and parses the JSON verdict.
func (s *LLMService) ScoreResume(ctx context.Context, resumeText, jobDescription string) (ScoreResult, error) {
	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}
	if jobDescription == "" {
		jobDescription = "General campus placement screening."
	}

	prompt := fmt.Sprintf(resumeScorePrompt, resumeText, jobDescription)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	result, err := parseScoreResponse(resp)
	if err != nil {
		log.Printf("⚠️  Oracle returned unparsable output: %v", err)
		return ScoreResult{}, err
	}
	return result, nil
}

// parseScoreResponse extracts the JSON object from the model output, which
// may be wrapped in markdown fences or surrounded by commentary.
func parseScoreResponse(resp string) (ScoreResult, error) {
	cleaned := strings.ReplaceAll(resp, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return ScoreResult{}, fmt.Errorf("%w: no JSON found in oracle response", ErrExternalService)
	}

	var result ScoreResult
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &result); err != nil {
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return result, nil
}
