package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidAppealReason_TooShort(t *testing.T) {
	// Причина из 19 символов должна отклоняться до каких-либо записей
	reason := strings.Repeat("a", MinAppealReasonLen-1)
	assert.False(t, ValidAppealReason(reason), "Причина короче %d символов должна отклоняться", MinAppealReasonLen)
}

func TestValidAppealReason_ExactMinimum(t *testing.T) {
	reason := strings.Repeat("a", MinAppealReasonLen)
	assert.True(t, ValidAppealReason(reason), "Причина ровно в %d символов должна приниматься", MinAppealReasonLen)
}

func TestValidAppealReason_TrimsWhitespace(t *testing.T) {
	// Пробелы по краям не должны учитываться в длине
	padded := "   " + strings.Repeat("a", MinAppealReasonLen-1) + "   "
	assert.False(t, ValidAppealReason(padded), "Пробелы по краям не должны добирать минимальную длину")

	assert.False(t, ValidAppealReason("                         "),
		"Строка из одних пробелов должна отклоняться")
}

func TestValidAppealReason_CountsRunes(t *testing.T) {
	// Длина считается в символах, а не в байтах
	reason := strings.Repeat("ы", MinAppealReasonLen)
	assert.True(t, ValidAppealReason(reason), "Кириллическая причина из %d символов должна приниматься", MinAppealReasonLen)
}

func TestAppeal_IsResolved(t *testing.T) {
	now := time.Now()

	pending := &Appeal{Status: AppealStatusPending}
	approved := &Appeal{Status: AppealStatusApproved, ResolvedAt: &now}
	rejected := &Appeal{Status: AppealStatusRejected, ResolvedAt: &now}

	assert.False(t, pending.IsResolved())
	assert.True(t, approved.IsResolved())
	assert.True(t, rejected.IsResolved())
}

func TestValidAppealDecision(t *testing.T) {
	assert.True(t, ValidAppealDecision(AppealStatusApproved))
	assert.True(t, ValidAppealDecision(AppealStatusRejected))
	assert.False(t, ValidAppealDecision(AppealStatusPending), "pending не является решением администратора")
	assert.False(t, ValidAppealDecision(""))
}
