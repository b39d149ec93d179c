package ticket

import (
	"errors"
	"fmt"
	"time"

	"corepay/internal/models"
	"corepay/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrUnknownStatus   = errors.New("unknown ticket status")
	ErrUnknownPriority = errors.New("unknown ticket priority")
	ErrClosed          = errors.New("ticket is closed")
)

type CreateInput struct {
	MerchantID *uint  `json:"merchant_id"`
	Subject    string `json:"subject" validate:"required"`
	Body       string `json:"body"`
	Priority   string `json:"priority"`
}

type Service interface {
	Create(input CreateInput) (*models.SupportTicket, error)
	Get(id uint) (*models.SupportTicket, error)
	List(limit, offset int, status, priority string) ([]models.SupportTicket, int64, error)
	Assign(id, adminID uint) error
	Transition(id uint, status string) error
	SetPriority(id uint, priority string) error
	Comment(id, authorID uint, body string, internal bool) (*models.TicketComment, error)
}

type service struct {
	repo repositories.TicketRepository
}

func NewService(repo repositories.TicketRepository) Service {
	return &service{repo: repo}
}

func (s *service) Create(input CreateInput) (*models.SupportTicket, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.TicketPriorityNormal
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}

	ticket := &models.SupportTicket{
		Reference:  "TCK-" + uuid.NewString()[:8],
		MerchantID: input.MerchantID,
		Subject:    input.Subject,
		Body:       input.Body,
		Status:     models.TicketStatusOpen,
		Priority:   priority,
	}
	if err := s.repo.Create(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *service) Get(id uint) (*models.SupportTicket, error) {
	return s.repo.GetByID(id)
}

func (s *service) List(limit, offset int, status, priority string) ([]models.SupportTicket, int64, error) {
	return s.repo.List(limit, offset, status, priority)
}

func (s *service) Assign(id, adminID uint) error {
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if ticket.Status == models.TicketStatusClosed {
		return ErrClosed
	}
	ticket.AssignedTo = &adminID
	return s.repo.Update(ticket)
}

func (s *service) Transition(id uint, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	ticket.Status = status
	if status == models.TicketStatusResolved || status == models.TicketStatusClosed {
		now := time.Now()
		ticket.ResolvedAt = &now
	} else {
		ticket.ResolvedAt = nil
	}
	return s.repo.Update(ticket)
}

func (s *service) SetPriority(id uint, priority string) error {
	if !validPriority(priority) {
		return fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	ticket.Priority = priority
	return s.repo.Update(ticket)
}

func (s *service) Comment(id, authorID uint, body string, internal bool) (*models.TicketComment, error) {
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, ErrClosed
	}

	comment := &models.TicketComment{
		TicketID: ticket.ID,
		AuthorID: authorID,
		Body:     body,
		Internal: internal,
	}
	if err := s.repo.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func validStatus(status string) bool {
	switch status {
	case models.TicketStatusOpen, models.TicketStatusPending,
		models.TicketStatusResolved, models.TicketStatusClosed:
		return true
	}
	return false
}

func validPriority(priority string) bool {
	switch priority {
	case models.TicketPriorityLow, models.TicketPriorityNormal,
		models.TicketPriorityHigh, models.TicketPriorityUrgent:
		return true
	}
	return false
}
