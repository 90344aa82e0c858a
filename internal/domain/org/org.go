// Package org holds the organizational aggregates the scheduling core reads:
// commands and the users that belong to them.
package org

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Command is the top-level organizational grouping of users.
type Command struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:200;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Command) TableName() string { return "commands" }

func (c *Command) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// User is the read-only partner view of an account. A user belongs to at most
// one command at a time.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"column:email;size:320;not null;uniqueIndex" json:"email"`
	FirstName string     `gorm:"column:first_name;size:100" json:"first_name"`
	LastName  string     `gorm:"column:last_name;size:100" json:"last_name"`
	IsActive  bool       `gorm:"column:is_active;not null;index" json:"is_active"`
	CommandID *uuid.UUID `gorm:"type:uuid;column:command_id;index" json:"command_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName prefers the person's name and falls back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// IDs returns the identities of users in input order.
func IDs(users []*User) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		if u != nil {
			out = append(out, u.ID)
		}
	}
	return out
}

// DedupeIDs drops nil and repeated ids, keeping first occurrence order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
