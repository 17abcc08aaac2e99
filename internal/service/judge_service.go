package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// JudgeService обращается к внешнему текстовому сервису мини-игры:
// один вызов выдает вопрос-челлендж, второй - текстовый вердикт по ответу.
// Оба ответа непроверяемы и считаются best-effort.
type JudgeService interface {
	FetchChallenge(ctx context.Context, language string) (string, error)
	JudgeAnswer(ctx context.Context, question, answer string) (string, error)
}

// NoopJudgeService используется, когда внешний сервис выключен.
// Выдает фиксированный вопрос и всегда засчитывает ответ.
type NoopJudgeService struct{}

func (s *NoopJudgeService) FetchChallenge(ctx context.Context, language string) (string, error) {
	log.Printf("[JudgeService] noop challenge language=%s", language)
	return fmt.Sprintf("What does a nil map lookup return in %s?", language), nil
}

func (s *NoopJudgeService) JudgeAnswer(ctx context.Context, question, answer string) (string, error) {
	return "true", nil
}

// HTTPJudgeService вызывает внешние GET-эндпоинты текстовой генерации
type HTTPJudgeService struct {
	challengeURL string
	judgmentURL  string
	client       *http.Client
}

// NewHTTPJudgeService создает клиента внешнего сервиса
func NewHTTPJudgeService(challengeURL, judgmentURL string, timeout time.Duration) (*HTTPJudgeService, error) {
	if challengeURL == "" || judgmentURL == "" {
		return nil, fmt.Errorf("challengeURL and judgmentURL are required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPJudgeService{
		challengeURL: challengeURL,
		judgmentURL:  judgmentURL,
		client:       &http.Client{Timeout: timeout},
	}, nil
}

// FetchChallenge запрашивает вопрос-челлендж для указанного языка
func (s *HTTPJudgeService) FetchChallenge(ctx context.Context, language string) (string, error) {
	prompt := fmt.Sprintf("Ask one short quiz question about the %s programming language. Reply with the question only.", language)
	return s.get(ctx, s.challengeURL, prompt)
}

// JudgeAnswer запрашивает текстовый вердикт по ответу пользователя.
// Ответ сервиса - свободный текст; вызывающая сторона ищет в нем подстроку "true".
func (s *HTTPJudgeService) JudgeAnswer(ctx context.Context, question, answer string) (string, error) {
	prompt := fmt.Sprintf("Question: %s\nAnswer: %s\nIs the answer correct? Reply strictly with true or false.", question, answer)
	return s.get(ctx, s.judgmentURL, prompt)
}

func (s *HTTPJudgeService) get(ctx context.Context, baseURL, prompt string) (string, error) {
	reqURL := fmt.Sprintf("%s?prompt=%s", baseURL, url.QueryEscape(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build judge request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge request failed: unexpected status %d", resp.StatusCode)
	}

	// Ограничиваем размер ответа: сервис сторонний и ничего не гарантирует
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read judge response: %w", err)
	}

	return string(body), nil
}
