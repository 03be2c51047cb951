package repos

import (
	"github.com/yungbote/dsaquest-backend/internal/data/repos/learning"
	"github.com/yungbote/dsaquest-backend/internal/data/repos/user"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ModuleRepo = learning.ModuleRepo
type LessonRepo = learning.LessonRepo
type StepRepo = learning.StepRepo
type ContentActivityLogRepo = learning.ContentActivityLogRepo

type UserRepo = user.UserRepo
type UserProgressRepo = user.UserProgressRepo
type NotificationRepo = user.NotificationRepo
type UserActivityRepo = user.UserActivityRepo

// Repos is the full repository set over one database handle.
type Repos struct {
	Module             ModuleRepo
	Lesson             LessonRepo
	Step               StepRepo
	ContentActivityLog ContentActivityLogRepo

	User         UserRepo
	UserProgress UserProgressRepo
	Notification NotificationRepo
	UserActivity UserActivityRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Module:             learning.NewModuleRepo(db, log),
		Lesson:             learning.NewLessonRepo(db, log),
		Step:               learning.NewStepRepo(db, log),
		ContentActivityLog: learning.NewContentActivityLogRepo(db, log),

		User:         user.NewUserRepo(db, log),
		UserProgress: user.NewUserProgressRepo(db, log),
		Notification: user.NewNotificationRepo(db, log),
		UserActivity: user.NewUserActivityRepo(db, log),
	}
}
