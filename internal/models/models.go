package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string `gorm:"unique;not null"           json:"username"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:user"     json:"role"`
}

type Store struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name  string `gorm:"unique;not null"           json:"name"`
	Items []Item `json:"items,omitempty"`
	Tags  []Tag  `json:"tags,omitempty"`
}

type Item struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                  json:"price"`
	StoreID     uint    `gorm:"index;not null"            json:"store_id"`
	Store       *Store  `json:"store,omitempty"`
	Tags        []Tag   `gorm:"many2many:items_tags;"     json:"tags,omitempty"`
}

type Tag struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name    string `gorm:"unique;not null"           json:"name"`
	StoreID uint   `gorm:"index;not null"            json:"store_id"`
	Store   *Store `json:"store,omitempty"`
	Items   []Item `gorm:"many2many:items_tags;"     json:"items,omitempty"`
}

// RevokedToken is one blocklist entry. ExpiresAt is the token's own exp, kept
// so entries can be pruned once the token would fail verification anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64"  json:"jti"`
	ExpiresAt time.Time `gorm:"index;not null"      json:"expires_at"`
	RevokedAt time.Time `gorm:"not null"            json:"revoked_at"`
}

func All() []any {
	return []any{&User{}, &Store{}, &Item{}, &Tag{}, &RevokedToken{}}
}
