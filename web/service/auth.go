package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onkonavigator/onkonav/config"
	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/database/model"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/util/common"
	"github.com/onkonavigator/onkonav/util/crypto"
	"github.com/onkonavigator/onkonav/web/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminClaims is the session token payload: subject is the AdminUser id.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService authenticates admin credentials and manages session tokens.
type AuthService struct {
	secret []byte
}

// NewAuthService builds the service around the configured signing secret.
// The secret must be verified non-empty at startup; an unsigned session
// token must never be issued.
func NewAuthService() *AuthService {
	return &AuthService{secret: []byte(config.GetJWTSecret())}
}

// CheckSecret returns an error when the signing secret is missing. Startup
// calls it and refuses to serve without it.
func CheckSecret() error {
	if config.GetJWTSecret() == "" {
		return common.NewError("ADMIN_JWT_SECRET is not set")
	}
	return nil
}

// Authenticate looks up the admin by email and verifies the password.
// Unknown email and wrong password are indistinguishable: both return nil.
func (s *AuthService) Authenticate(email string, password string) *model.AdminUser {
	db := database.GetDB()

	admin := &model.AdminUser{}
	err := db.Model(model.AdminUser{}).
		Where("email = ?", email).
		First(admin).
		Error
	if database.IsNotFound(err) {
		return nil
	} else if err != nil {
		logger.Warning("admin lookup err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(admin.PasswordHash, password) {
		return nil
	}

	return admin
}

// IssueToken signs a session token for the admin with a 7-day expiry.
func (s *AuthService) IssueToken(admin *model.AdminUser) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.SessionMaxAgeSeconds * time.Second)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken returns the decoded claims when signature and expiry are valid,
// nil otherwise. Verification failure is a normal "no session" outcome.
func (s *AuthService) VerifyToken(token string) *AdminClaims {
	claims := &AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}

// CurrentAdmin resolves the admin bound to the request's session cookie.
// The account is re-read from the store, so a deleted account yields no
// session even with a structurally valid token.
func (s *AuthService) CurrentAdmin(c *gin.Context) *model.AdminUser {
	token := session.GetAdminToken(c)
	if token == "" {
		return nil
	}

	claims := s.VerifyToken(token)
	if claims == nil {
		return nil
	}

	db := database.GetDB()
	admin := &model.AdminUser{}
	err := db.Model(model.AdminUser{}).
		Where("id = ?", claims.Subject).
		First(admin).
		Error
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("session admin lookup err:", err)
		}
		return nil
	}
	return admin
}

// EnsureDefaultAdmin creates the configured default admin account when it
// does not exist yet. It is idempotent and swallows persistence errors, so
// provisioning can never take the process down. Runs once at startup and
// from the CLI, never from request paths.
func (s *AuthService) EnsureDefaultAdmin() {
	email := config.GetDefaultAdminEmail()
	password := config.GetDefaultAdminPassword()
	if email == "" || password == "" {
		logger.Debug("DEFAULT_ADMIN_EMAIL or DEFAULT_ADMIN_PASSWORD not set, skipping default admin creation")
		return
	}

	db := database.GetDB()
	existing := &model.AdminUser{}
	err := db.Model(model.AdminUser{}).
		Where("email = ?", email).
		First(existing).
		Error
	if err == nil {
		return
	}
	if !database.IsNotFound(err) {
		logger.Warning("default admin lookup err:", err)
		return
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		logger.Warning("default admin hash err:", err)
		return
	}

	admin := &model.AdminUser{
		Id:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.Create(admin).Error; err != nil {
		logger.Warning("default admin create err:", err)
		return
	}
	logger.Infof("default admin account %s created", email)
}
