package models

import (
	"time"

	"gorm.io/gorm"
)

type SupportTicket struct {
	gorm.Model
	Reference  string `gorm:"uniqueIndex;not null"`
	MerchantID *uint  `gorm:"index"`
	Subject    string `gorm:"not null"`
	Body       string
	Status     string `gorm:"default:'open'"`
	Priority   string `gorm:"default:'normal'"`
	AssignedTo *uint
	ResolvedAt *time.Time
	Comments   []TicketComment `gorm:"foreignKey:TicketID"`
}

type TicketComment struct {
	gorm.Model
	TicketID uint   `gorm:"index;not null"`
	AuthorID uint   `gorm:"not null"`
	Body     string `gorm:"not null"`
	Internal bool   `gorm:"default:false"`
}

// Ticket statuses
const (
	TicketStatusOpen     = "open"
	TicketStatusPending  = "pending"
	TicketStatusResolved = "resolved"
	TicketStatusClosed   = "closed"
)

// Ticket priorities
const (
	TicketPriorityLow    = "low"
	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)
