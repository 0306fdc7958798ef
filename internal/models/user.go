package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusInactive  UserStatus = "inactive"
)

// UserBalance keeps the monetary state of a user account.
// Current is the amount available for withdrawal,
// Held is the amount reserved by pending withdrawal requests,
// Withdrawn is the lifetime amount paid out via approved withdrawals
type UserBalance struct {
	Current   decimal.Decimal
	Held      decimal.Decimal
	Withdrawn decimal.Decimal
}

type User struct {
	ID           int
	Name         string
	Email        string
	Password     string
	Role         UserRole
	Status       UserStatus
	ReferralCode string
	JoinedAt     time.Time
	Balance      UserBalance
}

func NewUser(name, email, password, referralCode string) User {
	return User{
		Name:         name,
		Email:        email,
		Password:     password,
		Role:         RoleUser,
		Status:       UserStatusActive,
		ReferralCode: referralCode,
		JoinedAt:     time.Now(),
	}
}

func NewUserFromID(id int) User {
	return User{ID: id}
}
