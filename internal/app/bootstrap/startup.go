// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/aman124598/TeacherHQ/internal/app/resources"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/aman124598/TeacherHQ/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources (like templates), warm caches, or perform
// any app-wide setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName)
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin guarantees that the configured admin account exists and has
// the admin role. An existing user with that email is promoted; otherwise
// a fresh account is created (it signs in via Google or a password reset).
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := deps.MongoDatabase.Collection("users")
	emailCI := text.Fold(email)

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email_ci": emailCI}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == "admin" {
			return nil
		}
		_, err := users.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
			"role":       "admin",
			"updated_at": time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("user_id", existing.ID.Hex()))
		return nil

	case err == mongo.ErrNoDocuments:
		now := time.Now().UTC()
		u := models.User{
			ID:         primitive.NewObjectID(),
			FullName:   "Administrator",
			FullNameCI: text.Fold("Administrator"),
			Email:      email,
			EmailCI:    emailCI,
			AuthMethod: "google",
			Role:       "admin",
			Status:     "active",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := users.InsertOne(ctx, u); err != nil {
			return err
		}
		logger.Info("created admin user", zap.String("email", email))
		return nil

	default:
		return err
	}
}
