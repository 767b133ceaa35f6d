package models

// Grade is a read-mostly lookup row used by batch and student forms.
type Grade struct {
	ID    string `db:"id" json:"id"`
	Level string `db:"level" json:"level"`
}
