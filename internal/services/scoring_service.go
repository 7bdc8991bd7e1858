package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/models"
)

// DocumentSource resolves an opaque resume reference to plain text.
type DocumentSource interface {
	FetchText(ref string) (string, error)
}

// ScoringService caches resume-quality verdicts per student profile and per
// application. Oracle failures never abort the caller's primary action: they
// degrade to a zero score with an explanatory note, which the user can
// re-trigger manually later.
type ScoringService struct {
	DB     *gorm.DB
	Oracle ScoreOracle
	Docs   DocumentSource
	Cache  *redis.Client // optional
}

const (
	scoreCacheTTL = 24 * time.Hour

	// minResumeText mirrors the extraction floor: anything shorter gets the
	// low sentinel rather than a Gemini round-trip.
	minResumeText  = 50
	shortTextScore = 10

	shortTextReason  = "Could not extract text. Ensure resume is a text PDF."
	unreadableReason = "Resume file is corrupted or unreadable."
	noOracleReason   = "AI scoring is not configured on this server."
	oracleDownReason = "AI Service Error. Try again later."
)

func NewScoringService(db *gorm.DB, oracle ScoreOracle, docs DocumentSource, cache *redis.Client) *ScoringService {
	return &ScoringService{DB: db, Oracle: oracle, Docs: docs, Cache: cache}
}

// GetOrCompute returns the resume score for a student, or for a specific
// application when jobID is non-nil. Cached verdicts (DB column, then Redis)
// are returned unless force is set. The returned error is only ever
// ErrNotFound: scoring failures are folded into the result.
func (s *ScoringService) GetOrCompute(ctx context.Context, studentID uint, jobID *uint, force bool) (ScoreResult, error) {
	if jobID != nil {
		return s.applicationScore(ctx, *jobID, studentID, force)
	}
	return s.profileScore(ctx, studentID, force)
}

func (s *ScoringService) profileScore(ctx context.Context, studentID uint, force bool) (ScoreResult, error) {
	var student models.User
	if err := s.DB.First(&student, studentID).Error; err != nil {
		return ScoreResult{}, ErrNotFound
	}

	if !force && student.ResumeScore != nil {
		return ScoreResult{Score: *student.ResumeScore, Reason: student.ResumeNote}, nil
	}

	key := profileScoreKey(studentID)
	if !force {
		if cached, ok := s.cacheGet(ctx, key); ok {
			return cached, nil
		}
	}

	result := s.compute(ctx, student.ResumeRef, "")
	s.cacheSet(ctx, key, result)

	err := s.DB.Model(&models.User{}).Where("id = ?", studentID).
		Updates(map[string]any{"resume_score": result.Score, "resume_note": result.Reason}).Error
	if err != nil {
		slog.Warn("persist profile score failed", "studentId", studentID, "err", err)
	}
	return result, nil
}

func (s *ScoringService) applicationScore(ctx context.Context, jobID, studentID uint, force bool) (ScoreResult, error) {
	var app models.Application
	if err := s.DB.Where("job_id = ? AND student_id = ?", jobID, studentID).First(&app).Error; err != nil {
		return ScoreResult{}, ErrNotFound
	}

	if !force && app.Score != nil {
		return ScoreResult{Score: *app.Score, Reason: app.ScoreNote}, nil
	}

	key := fmt.Sprintf("score:app:%d:%d", jobID, studentID)
	if !force {
		if cached, ok := s.cacheGet(ctx, key); ok {
			return cached, nil
		}
	}

	var job models.Job
	jobContext := ""
	if err := s.DB.First(&job, jobID).Error; err == nil {
		jobContext = job.Title + "\n" + job.Description
	}

	result := s.compute(ctx, app.ResumeRef, jobContext)
	s.cacheSet(ctx, key, result)

	err := s.DB.Model(&models.Application{}).Where("id = ?", app.ID).
		Updates(map[string]any{"score": result.Score, "score_note": result.Reason}).Error
	if err != nil {
		slog.Warn("persist application score failed", "applicationId", app.ID, "err", err)
	}
	return result, nil
}

// compute runs the full pipeline: resolve document, extract text, ask the
// oracle. Every failure mode maps to a low/zero sentinel.
func (s *ScoringService) compute(ctx context.Context, resumeRef, jobContext string) ScoreResult {
	if s.Oracle == nil {
		return ScoreResult{Score: 0, Reason: noOracleReason}
	}
	if resumeRef == "" {
		return ScoreResult{Score: 0, Reason: "No resume on file."}
	}

	text, err := s.Docs.FetchText(resumeRef)
	if err != nil {
		slog.Warn("resume fetch failed", "ref", resumeRef, "err", err)
		return ScoreResult{Score: 0, Reason: unreadableReason}
	}
	if len(strings.TrimSpace(text)) < minResumeText {
		return ScoreResult{Score: shortTextScore, Reason: shortTextReason}
	}

	result, err := s.Oracle.ScoreResume(ctx, text, jobContext)
	if err != nil {
		slog.Warn("oracle call failed", "err", err)
		return ScoreResult{Score: 0, Reason: oracleDownReason}
	}
	if result.Reason == "" {
		result.Reason = "No feedback provided."
	}
	return result
}

// InvalidateStudent drops the shared cache entry for a student's profile
// score. Called when the resume changes so a stale verdict cannot outlive it.
func (s *ScoringService) InvalidateStudent(ctx context.Context, studentID uint) {
	if s.Cache == nil {
		return
	}
	key := profileScoreKey(studentID)
	if err := s.Cache.Del(ctx, key).Err(); err != nil {
		slog.Warn("score cache invalidation failed", "key", key, "err", err)
	}
}

func profileScoreKey(studentID uint) string {
	return fmt.Sprintf("score:student:%d", studentID)
}

func (s *ScoringService) cacheGet(ctx context.Context, key string) (ScoreResult, bool) {
	if s.Cache == nil {
		return ScoreResult{}, false
	}
	raw, err := s.Cache.Get(ctx, key).Result()
	if err != nil {
		return ScoreResult{}, false
	}
	var result ScoreResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return ScoreResult{}, false
	}
	return result, true
}

func (s *ScoringService) cacheSet(ctx context.Context, key string, result ScoreResult) {
	if s.Cache == nil {
		return
	}
	raw, _ := json.Marshal(result)
	if err := s.Cache.Set(ctx, key, raw, scoreCacheTTL).Err(); err != nil {
		slog.Warn("score cache write failed", "key", key, "err", err)
	}
}
