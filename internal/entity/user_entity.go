package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	Username     string
	Avatar       string
	CreatedAt    time.Time
}
