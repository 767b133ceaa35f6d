package models

import "time"

// DeliveryManager is the staff role overseeing batches operationally;
// backed by an identity-provider record like teachers and students.
type DeliveryManager struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Img       *string   `db:"img" json:"img,omitempty"`
	Sex       Sex       `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DeliveryManagerDetail adds the number of batches the DM tracks.
type DeliveryManagerDetail struct {
	DeliveryManager
	BatchCount int `db:"batch_count" json:"batch_count"`
}

// DeliveryManagerFilter captures filtering criteria for listing DMs.
type DeliveryManagerFilter struct {
	Search    string
	Page      int
	SortBy    string
	SortOrder string
}
