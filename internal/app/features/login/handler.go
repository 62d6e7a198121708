// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/aman124598/TeacherHQ/internal/app/features/errors"
	"github.com/aman124598/TeacherHQ/internal/app/store/passwordreset"
	userstore "github.com/aman124598/TeacherHQ/internal/app/store/users"
	"github.com/aman124598/TeacherHQ/internal/app/system/auditlog"
	"github.com/aman124598/TeacherHQ/internal/app/system/auth"
	"github.com/aman124598/TeacherHQ/internal/app/system/mailer"
	"github.com/aman124598/TeacherHQ/internal/app/system/ratelimit"
	"github.com/aman124598/TeacherHQ/internal/app/system/timeouts"
	"github.com/aman124598/TeacherHQ/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Mailer        *mailer.Mailer
	AuditLog      *auditlog.Logger
	Users         *userstore.Store
	Resets        *passwordreset.Store
	Limits        *ratelimit.LoginLimiter
	BaseURL       string // Base URL for reset links (e.g., "https://teacherhq.example")
	GoogleEnabled bool   // True if Google OAuth is configured
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	Notice        string
	ReturnURL     string
	GoogleEnabled bool
}

type forgotFormData struct {
	viewdata.BaseVM
	Error string
	Email string
	Sent  bool
}

type resetFormData struct {
	viewdata.BaseVM
	Error string
	Token string
}

// formatExpiryDuration formats a time.Duration as a human-readable string
// e.g., "30 minutes", "1 hour"
func formatExpiryDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	mail *mailer.Mailer,
	audit *auditlog.Logger,
	baseURL string,
	resetExpiry time.Duration,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Mailer:        mail,
		AuditLog:      audit,
		Users:         userstore.New(db),
		Resets:        passwordreset.New(db, resetExpiry),
		Limits:        ratelimit.NewLoginLimiter(),
		BaseURL:       baseURL,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	notice := ""
	if query.Get(r, "reset") == "done" {
		notice = "Your password has been changed. Sign in with your new password."
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Notice:        notice,
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	// Throttled before credentials are verified.
	if ok, msg := h.Limits.Check(r, email); !ok {
		h.renderFormWithError(w, r, msg, email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.VerifyCredentials(ctx, email, password)
	switch {
	case errors.Is(err, userstore.ErrBadCredentials):
		// One failure path for unknown email, disabled account, and wrong
		// password so the form never leaks which accounts exist.
		h.auditLoginFailure(ctx, r, email)
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB verify credentials", err, "A server error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", email))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", email)
		return
	}

	h.Limits.ResetEmail(email)
	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.OrganizationID, "internal", u.Email)

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// auditLoginFailure distinguishes the failure reason for the audit trail
// even though the user-facing message stays uniform.
func (h *Handler) auditLoginFailure(ctx context.Context, r *http.Request, email string) {
	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err != nil:
		h.AuditLog.LoginFailed(ctx, r, "login_failed_user_not_found", email, nil)
	case u.Status == "disabled":
		h.AuditLog.LoginFailed(ctx, r, "login_failed_user_disabled", email, &u.ID)
	default:
		h.AuditLog.LoginFailed(ctx, r, "login_failed_wrong_password", email, &u.ID)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login/forgot                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForgotPage(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login_forgot", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Forgot password", "/login"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/forgot                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleForgotPost creates a reset token and emails the link. The response
// is the same whether or not the account exists.
func (h *Handler) HandleForgotPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login/forgot")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		templates.Render(w, r, "login_forgot", forgotFormData{
			BaseVM: viewdata.NewBaseVM(r, "Forgot password", "/login"),
			Error:  "Please enter your email address.",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil && u.Status != "disabled" {
		token, createErr := h.Resets.Create(ctx, u.ID, u.Email)
		switch {
		case errors.Is(createErr, passwordreset.ErrTooManyRequests):
			// Swallow; the uniform response below still renders.
			h.Log.Warn("password reset rate limited", zap.String("email", email))
		case createErr != nil:
			h.ErrLog.LogServerError(w, r, "DB create reset token", createErr, "A server error occurred.", "/login/forgot")
			return
		default:
			h.AuditLog.PasswordResetRequested(ctx, r, u.ID, u.Email)
			h.sendResetEmail(u.Email, token)
		}
	}

	templates.Render(w, r, "login_forgot", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Forgot password", "/login"),
		Email:  email,
		Sent:   true,
	})
}

func (h *Handler) sendResetEmail(to, token string) {
	link := strings.TrimRight(h.BaseURL, "/") + "/login/reset/" + token
	if h.Mailer == nil {
		// No SMTP in this environment; the link in the log keeps dev usable.
		h.Log.Info("password reset link (mail disabled)", zap.String("link", link))
		return
	}

	msg := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  "TeacherHQ",
		ResetLink: link,
		ExpiresIn: formatExpiryDuration(h.Resets.Expiry()),
	})
	msg.To = to
	if err := h.Mailer.Send(msg); err != nil {
		h.Log.Error("send reset email failed", zap.Error(err), zap.String("to", to))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login/reset/{token}                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeResetPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login_reset", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, "Choose a new password", "/login"),
		Token:  token,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login/reset/{token}                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleResetPost consumes the token (single use) and sets the new password.
func (h *Handler) HandleResetPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	token := chi.URLParam(r, "token")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm")

	if len(password) < 8 {
		h.renderResetWithError(w, r, "Password must be at least 8 characters.", token)
		return
	}
	if password != confirm {
		h.renderResetWithError(w, r, "Passwords do not match.", token)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reset, err := h.Resets.Consume(ctx, token)
	switch {
	case errors.Is(err, passwordreset.ErrNotFound):
		h.renderResetWithError(w, r, "This reset link is invalid or has expired. Please request a new one.", token)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB consume reset token", err, "A server error occurred.", "/login")
		return
	}

	if err := h.Users.SetPassword(ctx, reset.UserID, password); err != nil {
		h.ErrLog.LogServerError(w, r, "DB set password", err, "A server error occurred.", "/login")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, reset.UserID)
	http.Redirect(w, r, "/login?reset=done", http.StatusSeeOther)
}

func (h *Handler) renderResetWithError(w http.ResponseWriter, r *http.Request, msg, token string) {
	templates.Render(w, r, "login_reset", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, "Choose a new password", "/login"),
		Error:  msg,
		Token:  token,
	})
}
