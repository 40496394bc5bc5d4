package models

// School is a single directory entry. Records are only ever inserted; ID is assigned by the store.
type School struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"type:text;not null"`
	Address string `json:"address" gorm:"type:text;not null"`
	City    string `json:"city" gorm:"type:text;not null"`
	State   string `json:"state" gorm:"type:text;not null"`
	Contact string `json:"contact" gorm:"type:text;not null"`
	Image   string `json:"image" gorm:"type:text;not null"`
	EmailID string `json:"email_id" gorm:"column:email_id;type:text;not null"`
}

func (School) TableName() string {
	return "schools"
}
