package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/anonto42/class-forum/backend/internal/middleware"
	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/repositories"
	"github.com/anonto42/class-forum/backend/internal/session"
	"github.com/anonto42/class-forum/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       session.Store
	firebaseAuth   firebase.TokenVerifier
	secret         string
	sessionTTL     time.Duration
	log            logrus.FieldLogger

	// signupMu serializes the username check and insert of new accounts
	signupMu sync.Mutex
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil to disable Firebase login.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	sessions session.Store,
	firebaseAuth firebase.TokenVerifier,
	secret string,
	sessionTTL time.Duration,
	log logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		firebaseAuth:   firebaseAuth,
		secret:         secret,
		sessionTTL:     sessionTTL,
		log:            log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout, requireAuth)
	g.GET("/user", h.CurrentUser, requireAuth)
	if h.firebaseAuth != nil {
		g.POST("/auth/firebase", h.FirebaseLogin)
	}
}

// AuthResponse is returned by every successful login
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a local account and logs it in
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	user := &models.User{
		Username:    req.Username,
		Password:    string(hashedPassword),
		DisplayName: displayName,
	}

	ctx := c.Request().Context()
	h.signupMu.Lock()
	defer h.signupMu.Unlock()

	// the repository does not enforce unique usernames
	taken, err := h.usernameTaken(ctx, req.Username)
	if err != nil {
		return err
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, "Username already exists")
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return storageError(err, "")
	}
	h.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")

	token, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login checks a username/password pair and opens a session
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		return storageError(err, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout destroys the current session
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.sessions.Destroy(c.Request().Context(), claims.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to destroy session").SetInternal(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

// CurrentUser returns the authenticated user's record
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, err := h.userRepository.GetUser(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return storageError(err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and opens a session for the linked account,
// creating the account on first login
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	identity := firebase.IdentityFromToken(token)
	user, err := h.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = h.createFirebaseUser(ctx, identity)
		if err != nil {
			return err
		}
	} else if err != nil {
		return storageError(err, "")
	}

	sessionToken, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: sessionToken})
}

// createFirebaseUser creates the account linked to identity on its first login
func (h *AuthHandler) createFirebaseUser(ctx context.Context, identity firebase.Identity) (*models.User, error) {
	h.signupMu.Lock()
	defer h.signupMu.Unlock()

	// a concurrent first login may have created it while we waited
	if user, err := h.userRepository.GetUserByFirebaseUID(ctx, identity.UID); err == nil {
		return user, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageError(err, "")
	}

	username, err := h.firebaseUsername(ctx, identity)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:    username,
		DisplayName: identity.DisplayName(),
		FirebaseUID: &identity.UID,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, storageError(err, "")
	}
	h.log.WithFields(logrus.Fields{"user_id": user.ID, "firebase_uid": identity.UID}).Info("user registered via firebase")
	return user, nil
}

// firebaseUsername picks a free username for a new Firebase account: the email (or uid),
// then the same name with a short uid suffix. The verified username is never handed out.
// Callers hold signupMu.
func (h *AuthHandler) firebaseUsername(ctx context.Context, identity firebase.Identity) (string, error) {
	suffix := "-" + truncateRunes(identity.UID, 8)
	base := identity.Username()
	candidates := []string{
		truncateRunes(base, models.MaxUsernameLength),
		truncateRunes(base, models.MaxUsernameLength-utf8.RuneCountInString(suffix)) + suffix,
	}
	for _, name := range candidates {
		if name == models.VerifiedUsername {
			continue
		}
		taken, err := h.usernameTaken(ctx, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
	}
	return "", echo.NewHTTPError(http.StatusConflict, "Username already exists")
}

func (h *AuthHandler) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := h.userRepository.GetUserByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return false, storageError(err, "")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// startSession stores a new session for user, sets the token cookie and returns the token
func (h *AuthHandler) startSession(c echo.Context, user *models.User) (string, error) {
	sess := session.New(user.ID, h.sessionTTL)
	if err := h.sessions.Set(c.Request().Context(), sess); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session").SetInternal(err)
	}

	token, err := middleware.SignToken(h.secret, user, sess)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token").SetInternal(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}
