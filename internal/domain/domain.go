package domain

import (
	"github.com/yungbote/dsaquest-backend/internal/domain/learning"
	"github.com/yungbote/dsaquest-backend/internal/domain/user"
)

type (
	Module             = learning.Module
	Lesson             = learning.Lesson
	Step               = learning.Step
	StepType           = learning.StepType
	ContentActivityLog = learning.ContentActivityLog

	User         = user.User
	UserProgress = user.UserProgress
	Notification = user.Notification
	UserActivity = user.UserActivity
	ActionType   = user.ActionType
)

const (
	StepText        = learning.StepText
	StepImage       = learning.StepImage
	StepCode        = learning.StepCode
	StepQuiz        = learning.StepQuiz
	StepInteractive = learning.StepInteractive
	StepChallenge   = learning.StepChallenge
	StepCoding      = learning.StepCoding
	StepList        = learning.StepList
	StepVideo       = learning.StepVideo

	NotificationAchievement = user.NotificationAchievement
	NotificationLevelUp     = user.NotificationLevelUp
	NotificationStreak      = user.NotificationStreak
	NotificationInfo        = user.NotificationInfo

	ActionLessonCompleted = user.ActionLessonCompleted
	ActionStepCompleted   = user.ActionStepCompleted
	ActionQuizCompleted   = user.ActionQuizCompleted
)

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Module{},
		&Lesson{},
		&Step{},
		&UserProgress{},
		&Notification{},
		&UserActivity{},
		&ContentActivityLog{},
	}
}
