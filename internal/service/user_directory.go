package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"infoguru-be/internal/entity"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/internal/repository/contract"
	"infoguru-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userDirectoryModule = "user_directory"

type IUserDirectory interface {
	CreateUser(ctx context.Context, email, password, username, avatar string) (*entity.User, error)
	// GetUserByEmail returns (nil, nil) when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ValidateCredentials(ctx context.Context, email, password string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}

type userDirectory struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	hashCost   int

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewUserDirectory(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUserDirectory {
	return NewUserDirectoryWithCost(uowFactory, log, bcrypt.DefaultCost)
}

// NewUserDirectoryWithCost lets tests use bcrypt.MinCost.
func NewUserDirectoryWithCost(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, cost int) IUserDirectory {
	// Fails only for a cost above bcrypt.MaxCost, which CreateUser rejects too.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("infoguru-no-such-user"), cost)
	return &userDirectory{
		uowFactory: uowFactory,
		logger:     log,
		hashCost:   cost,
		dummyHash:  dummy,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *userDirectory) CreateUser(ctx context.Context, email, password, username, avatar string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.hashCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Username:     username,
		Avatar:       avatar,
		CreatedAt:    time.Now().UTC(),
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateEmail) {
			return nil, apperror.Conflict("User already exists")
		}
		return nil, apperror.Internal(err)
	}

	d.logger.Info(userDirectoryModule, "User created", map[string]interface{}{"user_id": user.Id})
	return user, nil
}

func (d *userDirectory) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (d *userDirectory) GetUserById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (d *userDirectory) ValidateCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := d.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = d.compare(d.dummyHash, []byte(password))
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if err := d.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	return user, nil
}

func (d *userDirectory) ListUsers(ctx context.Context) ([]*entity.User, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
