package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
)

// summaryMaxChars bounds each summary bullet.
const summaryMaxChars = 240

// maxQuarterFallback caps how many prior quarters GetSummary will walk back.
const maxQuarterFallback = 4

// TranscriptService fetches earnings-call transcripts and condenses them into
// a deterministic extractive summary. Summaries are cached per (ticker,
// quarter) and never refetched once stored.
type TranscriptService struct {
	transcriptRepo *repository.TranscriptRepository
	holdingRepo    *repository.HoldingRepository
	profileRepo    *repository.ProfileRepository
	provider       alphavantage.Client
}

// NewTranscriptService creates a new transcript service.
func NewTranscriptService(
	transcriptRepo *repository.TranscriptRepository,
	holdingRepo *repository.HoldingRepository,
	profileRepo *repository.ProfileRepository,
	provider alphavantage.Client,
) *TranscriptService {
	return &TranscriptService{
		transcriptRepo: transcriptRepo,
		holdingRepo:    holdingRepo,
		profileRepo:    profileRepo,
		provider:       provider,
	}
}

// GetSummary returns the summarized transcript for a ticker and quarter. A
// cached record with a summary is returned without any provider call. When
// the requested quarter has no transcript yet, up to fallback prior quarters
// (capped at 4) are tried in order before giving up with ErrTranscriptNotFound.
func (s *TranscriptService) GetSummary(ctx context.Context, ticker, quarter string, fallback int) (model.Transcript, error) {
	if fallback < 0 {
		fallback = 0
	}
	if fallback > maxQuarterFallback {
		fallback = maxQuarterFallback
	}

	candidate := quarter
	for attempt := 0; attempt <= fallback; attempt++ {
		if attempt > 0 {
			candidate = previousQuarter(candidate)
		}

		existing, err := s.transcriptRepo.Get(ticker, candidate)
		if err != nil {
			return model.Transcript{}, err
		}
		if existing != nil && existing.Summary != "" {
			return *existing, nil
		}

		raw, err := s.provider.GetTranscript(ctx, ticker, candidate)
		if err != nil {
			return model.Transcript{}, err
		}
		if strings.TrimSpace(raw.Text) == "" {
			continue
		}

		fetchedAt := time.Now().UTC()
		record := model.Transcript{
			Ticker:    ticker,
			Quarter:   candidate,
			Text:      raw.Text,
			Summary:   summarizeTranscript(raw.Text),
			FetchedAt: &fetchedAt,
		}
		if err := s.transcriptRepo.Save(ctx, &record); err != nil {
			return model.Transcript{}, err
		}
		return record, nil
	}

	return model.Transcript{}, fmt.Errorf("%s %s: %w", ticker, quarter, apperrors.ErrTranscriptNotFound)
}

// DigestPortfolio summarizes the latest available transcript for every held
// ticker and caches the digest on the user's profile. Tickers whose
// transcripts cannot be fetched are logged and omitted rather than failing
// the digest.
func (s *TranscriptService) DigestPortfolio(ctx context.Context, userID, quarter string, fallback int) (map[string]string, error) {
	holdings, err := s.holdingRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	digest := map[string]string{}
	for _, holding := range holdings {
		record, err := s.GetSummary(ctx, holding.Ticker, quarter, fallback)
		if err != nil {
			log.Printf("transcript digest: could not summarize %s %s: %v", holding.Ticker, quarter, err)
			continue
		}
		digest[holding.Ticker] = record.Summary
	}

	encoded, err := json.Marshal(digest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript digest: %w", err)
	}
	if err := s.profileRepo.SaveTranscripts(ctx, userID, quarter, string(encoded)); err != nil {
		return nil, err
	}

	return digest, nil
}

// previousQuarter steps one fiscal quarter back: Q1 wraps to the prior
// year's Q4. The input must already be a validated "YYYYQ[1-4]" string.
func previousQuarter(quarter string) string {
	year, _ := strconv.Atoi(quarter[:4])
	num, _ := strconv.Atoi(quarter[5:])
	if num == 1 {
		return fmt.Sprintf("%dQ4", year-1)
	}
	return fmt.Sprintf("%dQ%d", year, num-1)
}

// Keyword and boilerplate sets driving the extractive scorer. Keywords mark
// substance; boilerplate markers identify the ceremonial parts of a call that
// carry no information.
var (
	summaryKeywords = []string{
		"revenue", "guidance", "outlook", "forecast", "margin", "gross margin",
		"operating margin", "eps", "earnings", "profit", "cash flow",
		"free cash flow", "capex", "debt", "buyback", "dividend", "growth",
		"headwind", "tailwind", "subscriber", "pricing", "demand", "pipeline",
		"backlog", "bookings", "quarter", "year",
	}
	boilerplateMarkers = []string{
		"welcome to", "conference call", "forward-looking", "safe harbor",
		"risks and uncertainties", "sec", "form 10-", "earnings release",
		"investor relations", "reconciliation of these measures",
		"prepared remarks", "turn the call over", "operator",
	}

	sentenceSplit  = regexp.MustCompile(`[.!?]\s+`)
	numericPattern = regexp.MustCompile(`\$\d|\b\d+(\.\d+)?%|\b\d+(\.\d+)?\b`)
	productPattern = regexp.MustCompile(`\biphone|ipad|mac|services|wearables|vision pro|app store|icloud\b`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// summarizeTranscript condenses a transcript into at most six scored bullet
// points, each bounded in length. The scoring is purely lexical so the same
// text always yields the same summary.
func summarizeTranscript(text string) string {
	points := extractKeyPoints(text)
	bullets := make([]string, 0, len(points))
	for _, point := range points {
		if len(point) > summaryMaxChars {
			point = strings.TrimRight(point[:summaryMaxChars], " ") + "..."
		}
		bullets = append(bullets, "- "+point)
	}
	return strings.TrimSpace(strings.Join(bullets, "\n"))
}

// extractKeyPoints scores every sentence by keyword and numeric density,
// drops boilerplate and near-duplicates, and returns the top six. When fewer
// than three sentences score at all, unscored non-boilerplate sentences pad
// the result up to three.
func extractKeyPoints(text string) []string {
	sentences := splitSentences(strings.TrimSpace(text))

	type scored struct {
		score    int
		index    int
		sentence string
	}
	var candidates []scored
	seen := map[string]struct{}{}

	for i, sentence := range sentences {
		clean := strings.TrimSpace(sentence)
		if len(clean) < 20 {
			continue
		}
		lowered := strings.ToLower(clean)
		if containsAny(lowered, boilerplateMarkers) {
			continue
		}
		normalized := whitespaceRuns.ReplaceAllString(lowered, " ")
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		score := 0
		for _, keyword := range summaryKeywords {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		if numericPattern.MatchString(clean) {
			score += 2
		}
		if productPattern.MatchString(lowered) {
			score += 2
		}
		if score > 0 {
			candidates = append(candidates, scored{score: score, index: i, sentence: clean})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	points := []string{}
	for _, c := range candidates {
		if len(points) >= 6 {
			break
		}
		points = append(points, c.sentence)
	}

	if len(points) < 3 {
		for _, sentence := range sentences {
			clean := strings.TrimSpace(sentence)
			if len(clean) < 20 {
				continue
			}
			lowered := strings.ToLower(clean)
			if containsAny(lowered, boilerplateMarkers) {
				continue
			}
			normalized := whitespaceRuns.ReplaceAllString(lowered, " ")
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			points = append(points, clean)
			if len(points) >= 3 {
				break
			}
		}
	}

	return points
}

// splitSentences breaks text on terminal punctuation followed by whitespace,
// keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	if text == "" {
		return nil
	}
	indexes := sentenceSplit.FindAllStringIndex(text, -1)
	sentences := make([]string, 0, len(indexes)+1)
	start := 0
	for _, loc := range indexes {
		// loc[0]+1 keeps the ".", "!" or "?" on the sentence
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	sentences = append(sentences, text[start:])
	return sentences
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
