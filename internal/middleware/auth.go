package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/emilyhospital/hospital-api/internal/handler"
	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	"github.com/emilyhospital/hospital-api/pkg/auth"
)

type AuthMiddleware struct {
	jwtSvc     auth.JWTService
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	actorCache *cache.Cache
}

func NewAuthMiddleware(jwtSvc auth.JWTService, userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc:     jwtSvc,
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		actorCache: cache.New(time.Minute, 5*time.Minute),
	}
}

// Authenticate verifies the bearer token and attaches the resolved
// Actor to the request context. Resolved actors are cached briefly
// keyed by user id, so repeated requests skip the user/doctor lookups.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		actor, err := m.resolveActor(c, claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unknown user"))
			c.Abort()
			return
		}

		c.Set(handler.ContextActor, actor)
		c.Next()
	}
}

func (m *AuthMiddleware) resolveActor(c *gin.Context, claims *auth.Claims) (*model.Actor, error) {
	cacheKey := claims.UserID.String()
	if cached, found := m.actorCache.Get(cacheKey); found {
		return cached.(*model.Actor), nil
	}

	user, err := m.userRepo.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}

	actor := &model.Actor{
		ID:          user.ID,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}

	// A doctor without a profile row stays a valid actor with a nil
	// profile reference; downstream scoping fails closed on it.
	if user.Role == model.RoleDoctor {
		doctor, err := m.doctorRepo.GetByUserID(c.Request.Context(), user.ID)
		if err == nil {
			actor.DoctorProfileID = &doctor.ID
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	m.actorCache.Set(cacheKey, actor, cache.DefaultExpiration)
	return actor, nil
}
