package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderpets/admin-api/internal/models"
	"github.com/wanderpets/admin-api/pkg/docstore"
)

// ErrAdminNotFound is returned when no admin matches.
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository persists console operators and the audit trail.
type AdminRepository struct {
	store docstore.Store
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(store docstore.Store) *AdminRepository {
	return &AdminRepository{store: store}
}

// FindByEmail returns the admin with the given email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: string(models.CollectionAdmins),
		Where:      []docstore.Where{{Field: "email", Value: strings.ToLower(strings.TrimSpace(email))}},
		Limit:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrAdminNotFound
	}
	var admin models.Admin
	if err := docstore.Decode(&docs[0], &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID returns the admin with the given id.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	doc, err := r.store.Get(ctx, string(models.CollectionAdmins), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin %s: %w", id, err)
	}
	var admin models.Admin
	if err := docstore.Decode(doc, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create stores a new admin. The email is normalised to lower case.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	fields, err := docstore.Encode(admin)
	if err != nil {
		return err
	}
	delete(fields, "id")
	if err := r.store.Create(ctx, string(models.CollectionAdmins), admin.ID, fields); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the login time.
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if err := r.store.Update(ctx, string(models.CollectionAdmins), id, map[string]any{"lastLogin": ts}, docstore.Precondition{}); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// CreateAuditLog appends an audit entry.
func (r *AdminRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	fields, err := docstore.Encode(log)
	if err != nil {
		return err
	}
	delete(fields, "id")
	if err := r.store.Create(ctx, string(models.CollectionAuditLogs), log.ID, fields); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns audit entries, newest first.
func (r *AdminRepository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: string(models.CollectionAuditLogs),
		OrderBy:    &docstore.OrderBy{Field: "created_at", Direction: docstore.Desc},
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	logs := make([]models.AuditLog, 0, len(docs))
	for i := range docs {
		var entry models.AuditLog
		if err := docstore.Decode(&docs[i], &entry); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
