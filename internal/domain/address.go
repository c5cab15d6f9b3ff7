package domain

type Address struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId,omitempty"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"address"`
	City      string `json:"city"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
