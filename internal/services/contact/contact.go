package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

type Service struct {
	storage  storage.Storage
	logger   *slog.Logger
	validate *validator.Validate
}

func NewService(store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage:  store,
		logger:   logger.With(slog.String("component", "contact")),
		validate: validator.New(),
	}
}

// Submit validates and stores a message from the contact form.
func (s *Service) Submit(ctx context.Context, req types.ContactRequest) (types.ContactMessage, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.validate.Struct(req); err != nil {
		return types.ContactMessage{}, err
	}

	msg, err := s.storage.CreateContactMessage(ctx, types.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return types.ContactMessage{}, err
	}

	s.logger.Info("contact message received",
		slog.String("id", msg.ID),
		slog.String("email", msg.Email))
	return msg, nil
}
