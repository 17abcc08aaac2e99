package service

import "errors"

// Определяем кастомные ошибки для сервисов
var (
	// ErrInsufficientBalance - недостаточно кредитов для ставки в мини-игре
	ErrInsufficientBalance = errors.New("insufficient review balance")

	// ErrDailyLimitReached - дневной лимит попыток мини-игры исчерпан
	ErrDailyLimitReached = errors.New("daily game attempts limit reached")

	// ErrOwnSolution - ревьюер пытается оставить ревью на собственное решение
	ErrOwnSolution = errors.New("cannot review own solution")

	// ErrAlreadyReviewed - ревьюер уже оставлял ревью на это решение
	ErrAlreadyReviewed = errors.New("solution already reviewed by this reviewer")

	// ErrSolutionDecided - по решению уже принят вердикт, новое ревью не принимается
	ErrSolutionDecided = errors.New("solution already decided")
)
