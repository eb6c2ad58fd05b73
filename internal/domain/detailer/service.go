package detailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/recontrack/internal/repository"
)

// Service handles the detailer roster.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new detailer service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines detailer creation inputs.
type CreateRequest struct {
	Name  string
	Email string
	Phone string
}

// UpdateRequest changes the supplied fields only.
type UpdateRequest struct {
	ID     string
	Name   *string
	Email  *string
	Phone  *string
	Active *bool
}

// Create adds a detailer to the roster. Names are unique, ignoring case.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Detailer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &Detailer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating detailer: %w", err)
	}

	s.logger.Info("detailer created", "detailer_id", d.ID, "name", d.Name)
	return d, nil
}

// Get fetches a detailer by ID.
func (s *Service) Get(ctx context.Context, id string) (*Detailer, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDetailerNotFound
		}
		return nil, fmt.Errorf("getting detailer: %w", err)
	}
	return d, nil
}

// List returns the roster ordered by name.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Detailer, error) {
	list, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing detailers: %w", err)
	}
	return list, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Detailer, error) {
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		updated.Name = name
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return nil, err
		}
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrDetailerNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("updating detailer: %w", err)
	}
	return &updated, nil
}

// Deactivate takes a detailer off the roster without deleting assignments.
func (s *Service) Deactivate(ctx context.Context, id string) (*Detailer, error) {
	inactive := false
	return s.Update(ctx, UpdateRequest{ID: id, Active: &inactive})
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	return nil
}
