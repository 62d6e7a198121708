// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activityfeature "github.com/aman124598/TeacherHQ/internal/app/features/activity"
	attendancefeature "github.com/aman124598/TeacherHQ/internal/app/features/attendance"
	auditlogfeature "github.com/aman124598/TeacherHQ/internal/app/features/auditlog"
	authgooglefeature "github.com/aman124598/TeacherHQ/internal/app/features/authgoogle"
	dashboardfeature "github.com/aman124598/TeacherHQ/internal/app/features/dashboard"
	errorsfeature "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	healthfeature "github.com/aman124598/TeacherHQ/internal/app/features/health"
	homefeature "github.com/aman124598/TeacherHQ/internal/app/features/home"
	loginfeature "github.com/aman124598/TeacherHQ/internal/app/features/login"
	logoutfeature "github.com/aman124598/TeacherHQ/internal/app/features/logout"
	noticesfeature "github.com/aman124598/TeacherHQ/internal/app/features/notices"
	organizationsfeature "github.com/aman124598/TeacherHQ/internal/app/features/organizations"
	profilefeature "github.com/aman124598/TeacherHQ/internal/app/features/profile"
	tasksfeature "github.com/aman124598/TeacherHQ/internal/app/features/tasks"
	teachersfeature "github.com/aman124598/TeacherHQ/internal/app/features/teachers"
	"github.com/aman124598/TeacherHQ/internal/app/store/audit"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TeacherHQ initializes the template
// engine, applies session middleware, and mounts feature routers for all
// application areas: home, login, dashboard, attendance, organizations,
// teachers, tasks, and notices.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. This ensures role changes and disabled accounts take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Audit trail: MongoDB plus structured logs, per config.
	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Admin:      appCfg.AuditLogAdmin,
		Attendance: appCfg.AuditLogAttendance,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Outbound mail for password reset links (nil when SMTP is not configured)
	mail := mailer.New(mailer.Config{
		Host:     appCfg.SMTPHost,
		Port:     appCfg.SMTPPort,
		Username: appCfg.SMTPUsername,
		Password: appCfg.SMTPPassword,
		From:     appCfg.SMTPFrom,
	}, logger)

	// Authentication
	loginHandler := loginfeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		errLog,
		mail,
		auditLogger,
		appCfg.BaseURL,
		appCfg.PasswordResetExpiry,
		appCfg.GoogleClientID != "",
		logger,
	)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Google sign-in is optional; mounted only when configured.
	if appCfg.GoogleClientID != "" {
		googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr, auditLogger, errLog, authgooglefeature.Config{
			ClientID:     appCfg.GoogleClientID,
			ClientSecret: appCfg.GoogleClientSecret,
			BaseURL:      appCfg.BaseURL,
		}, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Attendance marking and history
	attendanceHandler := attendancefeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	// Organization management
	orgHandler := organizationsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
	r.Mount("/organizations", organizationsfeature.Routes(orgHandler, sessionMgr))

	// Teacher account management
	teachersHandler := teachersfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
	r.Mount("/teachers", teachersfeature.Routes(teachersHandler, sessionMgr))

	// Activity feed
	activityHandler := activityfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))

	// Task board
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Notice board
	noticesHandler := noticesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/notices", noticesfeature.Routes(noticesHandler, sessionMgr))

	// Audit trail viewer
	auditlogHandler := auditlogfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditlogHandler, sessionMgr))

	// Own profile and password management
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
