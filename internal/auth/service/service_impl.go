package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/vexaai/vexa/internal/auth/domain"
	"github.com/vexaai/vexa/internal/auth/password"
	"github.com/vexaai/vexa/internal/auth/token"
	"github.com/vexaai/vexa/internal/observability/metrics"
	"github.com/vexaai/vexa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	userTokenTTL  = 7 * 24 * time.Hour
	adminTokenTTL = 24 * time.Hour

	minPasswordLength = 8
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Tokens  *token.Manager
	Metrics *metrics.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	tokens  *token.Manager
	metrics *metrics.Metrics

	// decoyHash is verified when the account does not exist so the failure
	// path costs the same as a real password check.
	decoyHash string
}

func New(p Params) (domain.Service, error) {
	decoy, err := password.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("auth.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		tokens:    p.Tokens,
		metrics:   p.Metrics,
		decoyHash: decoy,
	}, nil
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.metrics.RecordRegistration(ctx)
	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.verifyCredentials(ctx, req)
	if err != nil {
		s.metrics.RecordLogin(ctx, "failure")
		return domain.LoginResponse{}, err
	}

	raw, err := s.tokens.Issue(user.ID, user.Email, user.IsAdmin, userTokenTTL)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.recordLogin(ctx, user)
	s.metrics.RecordLogin(ctx, "success")
	return domain.LoginResponse{Token: raw, User: *user}, nil
}

func (s *Service) AdminLogin(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.verifyCredentials(ctx, req)
	if err != nil {
		s.metrics.RecordLogin(ctx, "failure")
		return domain.LoginResponse{}, err
	}
	if !user.IsAdmin {
		s.metrics.RecordLogin(ctx, "failure")
		return domain.LoginResponse{}, domain.ErrAdminRequired
	}

	raw, err := s.tokens.Issue(user.ID, user.Email, true, adminTokenTTL)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.recordLogin(ctx, user)
	s.metrics.RecordLogin(ctx, "success")
	return domain.LoginResponse{Token: raw, User: *user}, nil
}

func (s *Service) Authenticate(_ context.Context, rawToken string) (*token.Claims, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(rawToken))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// verifyCredentials always performs one Argon2 verification so unknown
// accounts and wrong passwords are indistinguishable by response time.
func (s *Service) verifyCredentials(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		password.Verify(req.Password, s.decoyHash)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		password.Verify(req.Password, s.decoyHash)
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

func (s *Service) recordLogin(ctx context.Context, user *domain.User) {
	now := time.Now().UTC()
	if err := s.repo.RecordLogin(ctx, s.db, user.ID, now); err != nil {
		s.log.Warn("record login", zap.Error(err), zap.String("user_id", user.ID.String()))
		return
	}
	user.LoginCount++
	user.LastLogin = &now
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return email, nil
}
