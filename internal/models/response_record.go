package models

import "time"

// ResponseRecord is one answered checklist question. All records written by
// one submission share FilePath and Timestamp.
type ResponseRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Process   string    `gorm:"not null" json:"process"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	FilePath  *string   `json:"filePath"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (ResponseRecord) TableName() string {
	return "responses"
}
