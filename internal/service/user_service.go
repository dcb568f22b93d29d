package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderpets/admin-api/internal/listview"
	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/internal/repository"
	"github.com/wanderpets/admin-api/pkg/docstore"
	appErrors "github.com/wanderpets/admin-api/pkg/errors"
)

type adminAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// CreateAdminRequest represents payload for creating console operators.
type CreateAdminRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"full_name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=SUPERADMIN ADMIN STAFF"`
	Password string          `json:"password" validate:"required,min=8"`
}

// UserService reads app users and manages console operators.
type UserService struct {
	repo      documentRepository
	admins    adminAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
	pageSize  int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo documentRepository, admins adminAccountRepository, validate *validator.Validate, pageSize int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, admins: admins, validator: validate, logger: logger, pageSize: listview.NormalizePageSize(pageSize)}
}

// ListUsers returns one page of app users, newest first.
func (s *UserService) ListUsers(ctx context.Context, q ListQuery) (*ListResult, error) {
	docs, err := s.repo.List(ctx, models.CollectionUsers, "createdAt", docstore.Desc)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	projection := listview.UserProjection(models.ConsoleZone)
	rows := make([]listview.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, projection.Project(string(models.CollectionUsers), doc.ID, doc.Data))
	}
	result := pageRows(rows, q, s.pageSize)
	return &result, nil
}

// Profile returns an app user by email with the pets they registered.
func (s *UserService) Profile(ctx context.Context, email string) (*models.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	docs, err := s.repo.Find(ctx, models.CollectionUsers, docstore.Where{Field: "email", Value: email})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if len(docs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	var user models.AppUser
	if err := docstore.Decode(&docs[0], &user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode user")
	}

	petDocs, err := s.repo.Find(ctx, models.CollectionUserPets, docstore.Where{Field: "email", Value: email})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user pets")
	}
	pets := make([]models.UserPet, 0, len(petDocs))
	for i := range petDocs {
		var pet models.UserPet
		if err := docstore.Decode(&petDocs[i], &pet); err != nil {
			s.logger.Warn("skipping malformed user pet", zap.String("id", petDocs[i].ID), zap.Error(err))
			continue
		}
		pets = append(pets, pet)
	}
	sort.SliceStable(pets, func(i, j int) bool { return pets[i].Name < pets[j].Name })

	profile := &models.UserProfile{User: user, Pets: pets}
	if user.CreatedAt != nil && !user.CreatedAt.IsZero() {
		profile.Joined = models.FormatCreatedAt(user.CreatedAt.Time())
	}
	return profile, nil
}

// CreateAdmin registers a console operator.
func (s *UserService) CreateAdmin(ctx context.Context, req CreateAdminRequest, actor models.Actor) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	if _, err := s.admins.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	admin := &models.Admin{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	emitAudit(ctx, s.admins, s.logger, actor, models.AuditActionCreate, string(models.CollectionAdmins), admin.ID, nil,
		map[string]any{"email": admin.Email, "role": string(admin.Role)})
	info := userInfo(admin)
	return &info, nil
}

// AuditTrail returns the newest audit entries.
func (s *UserService) AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.admins.ListAuditLogs(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	return logs, nil
}
