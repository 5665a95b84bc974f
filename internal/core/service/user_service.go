package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/user-management/internal/api/metrics"
	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// csvHeader is the export header row. The password hash column is
// deliberately absent.
var csvHeader = []string{"id", "name", "email", "phone", "role", "created_at", "updated_at"}

// UserService implements the user CRUD, listing and CSV export.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// List returns one page ordered by id ascending. Pages are 1-based;
// per_page is clamped to 1..100 and defaults to 10.
func (s *UserService) List(ctx context.Context, page, perPage int, search string) (*ports.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Page:    page,
		PerPage: perPage,
		Search:  search,
	})
	if err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	from, to := 0, 0
	if len(users) > 0 {
		from = (page-1)*perPage + 1
		to = from + len(users) - 1
	}

	return &ports.UserPage{
		Users:       users,
		Total:       total,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		From:        from,
		To:          to,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a user with an admin-selected role. Field syntax is
// validated at the transport layer; uniqueness is reported here as a
// field-level validation error.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.NewValidationError().Add("email", "The email has already been taken.")
		}
		return nil, err
	}

	metrics.UserMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// Update applies a partial update. A nil or empty password leaves the
// stored hash byte-identical; a non-empty one is re-hashed.
func (s *UserService) Update(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.NewValidationError().Add("email", "The email has already been taken.")
		}
		return nil, err
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Delete removes the record permanently. Deleting a missing id, including
// the same id twice, fails with domain.ErrUserNotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ExportCSV renders every user as CSV with a header row. The filename
// embeds the export date: users_<YYYY-MM-DD>.csv.
func (s *UserService) ExportCSV(ctx context.Context) (*ports.CSVExport, error) {
	users, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range users {
		u := &users[i]
		record := []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			u.Phone,
			u.Role,
			u.CreatedAt.UTC().Format(time.RFC3339),
			u.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	metrics.CSVExportsTotal.Inc()
	s.logger.Info().Int("rows", len(users)).Msg("users exported to csv")

	return &ports.CSVExport{
		Filename: fmt.Sprintf("users_%s.csv", time.Now().UTC().Format("2006-01-02")),
		Data:     buf.Bytes(),
	}, nil
}
