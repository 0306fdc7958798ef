package models

import "time"

type ManagerStatus string

const (
	ManagerStatusActive    ManagerStatus = "active"
	ManagerStatusSuspended ManagerStatus = "suspended"
)

// Manager is a staff console record describing a platform manager:
// who they are, what they are permitted to do and their moderation counters
type Manager struct {
	ID              int
	Name            string
	Email           string
	Status          ManagerStatus
	Department      string
	Permissions     []string
	ManagedUsers    int
	ApprovedReviews int
	JoinedAt        time.Time
}

func NewManager(name, email, department string, permissions []string) Manager {
	return Manager{
		Name:        name,
		Email:       email,
		Status:      ManagerStatusActive,
		Department:  department,
		Permissions: permissions,
		JoinedAt:    time.Now(),
	}
}
