package privatesrv

import (
	"context"
	"time"

	"github.com/creditos/creditos-backend/internal/domain"
	"github.com/creditos/creditos-backend/internal/dto"
	"github.com/creditos/creditos-backend/internal/repository"
	"github.com/creditos/creditos-backend/internal/service"
	"github.com/creditos/creditos-backend/pkg/common"
	"github.com/creditos/creditos-backend/pkg/password"
	"github.com/golang-jwt/jwt/v5"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type privateService struct {
	db             *gorm.DB
	userRepository repository.UserRepository

	jwtSecret string

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger

	operationCount metric.Int64Counter
	loginsFailed   metric.Int64Counter
}

// Login implements service.PrivateService.
func (p *privateService) Login(ctx context.Context, data dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx, span := p.tracer.Start(ctx, "service.Login")
	defer span.End()

	p.operationCount.Add(ctx, 1)

	user, err := p.userRepository.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !password.CheckPasswordHash(data.Password, user.PasswordHash) {
		p.loginsFailed.Add(ctx, 1)
		p.log.Warn("Login rejected", zap.String("email", data.Email))
		return nil, common.ErrInvalidCredentials
	}

	claims := &domain.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			Issuer:    "creditos",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(p.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: signedToken}, nil
}

// Me implements service.PrivateService. A token may outlive its user row,
// so a missing user is reported, not treated as an internal error.
func (p *privateService) Me(ctx context.Context, userID uint64) (*dto.UserResponse, error) {
	ctx, span := p.tracer.Start(ctx, "service.Me")
	defer span.End()

	user, err := p.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		p.log.Warn("Profile requested for missing user", zap.Uint64("user_id", userID))
		return nil, common.ErrUserNotFound
	}

	res := dto.UserToResponse(user)
	return &res, nil
}

func NewPrivateService(
	db *gorm.DB,
	jwtSecret string,
	userRepository repository.UserRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.PrivateService {
	operationCount, _ := meter.Int64Counter(
		"service.logins.count",
		metric.WithDescription("Number of login attempts"),
		metric.WithUnit("{login}"),
	)

	loginsFailed, _ := meter.Int64Counter(
		"service.logins.failed",
		metric.WithDescription("Number of failed login attempts"),
		metric.WithUnit("{login}"),
	)

	return &privateService{
		db:             db,
		userRepository: userRepository,

		jwtSecret: jwtSecret,

		meter:  meter,
		tracer: tracer,
		log:    log,

		operationCount: operationCount,
		loginsFailed:   loginsFailed,
	}
}
