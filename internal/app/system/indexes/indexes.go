// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/store/activity"
	"github.com/aman124598/TeacherHQ/internal/app/store/attendance"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	noticestore "github.com/aman124598/TeacherHQ/internal/app/store/notices"
	"github.com/aman124598/TeacherHQ/internal/app/store/oauthstate"
	organizationstore "github.com/aman124598/TeacherHQ/internal/app/store/organizations"
	"github.com/aman124598/TeacherHQ/internal/app/store/passwordreset"
	taskstore "github.com/aman124598/TeacherHQ/internal/app/store/tasks"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ensurer interface {
	EnsureIndexes(ctx context.Context) error
}

/*
EnsureAll is called at startup. Each store's EnsureIndexes is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	start := time.Now()

	ensurers := map[string]ensurer{
		"users":           userstore.New(db),
		"activity_logs":   activity.New(db, logger),
		"organizations":   organizationstore.New(db),
		"attendance":      attendance.New(db),
		"audit_events":    audit.New(db),
		"tasks":           taskstore.New(db),
		"notices":         noticestore.New(db),
		"oauth_states":    oauthstate.New(db),
		"password_resets": passwordreset.New(db, 0),
	}

	var problems []string
	for name, e := range ensurers {
		if err := e.EnsureIndexes(ctx); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	logger.Info("database indexes ensured",
		zap.Int("collections", len(ensurers)),
		zap.Duration("took", time.Since(start)))
	return nil
}
