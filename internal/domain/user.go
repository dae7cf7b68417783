package domain

import (
	"fmt"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	FactionID *uint     `json:"faction_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the identity string stamped on points, captures and treasury rows.
func (u User) Actor() string {
	return fmt.Sprintf("%s#%d", u.Name, u.ID)
}

// Member is a user together with the faction it belongs to.
type Member struct {
	User
	Faction *Faction `json:"faction,omitempty"`
}
