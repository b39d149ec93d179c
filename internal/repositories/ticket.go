package repositories

import (
	"corepay/internal/models"

	"gorm.io/gorm"
)

type TicketRepository interface {
	GetByID(id uint) (*models.SupportTicket, error)
	Create(ticket *models.SupportTicket) error
	Update(ticket *models.SupportTicket) error
	List(limit, offset int, status, priority string) ([]models.SupportTicket, int64, error)
	AddComment(comment *models.TicketComment) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) GetByID(id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Preload("Comments").First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Create(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

func (r *ticketRepository) Update(ticket *models.SupportTicket) error {
	return r.db.Save(ticket).Error
}

func (r *ticketRepository) List(limit, offset int, status, priority string) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket
	var total int64

	q := r.db.Model(&models.SupportTicket{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if priority != "" {
		q = q.Where("priority = ?", priority)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Limit(limit).Offset(offset).Order("created_at DESC").Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepository) AddComment(comment *models.TicketComment) error {
	return r.db.Create(comment).Error
}
