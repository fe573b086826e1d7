package model

import "time"

// JobPosting 职位（由 CRUD 层维护，分发服务只读）
type JobPosting struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null" binding:"required" validate:"required"`
	Company         string    `json:"company" gorm:"type:varchar(255);not null" binding:"required" validate:"required"`
	Location        string    `json:"location" gorm:"type:varchar(255)"`
	Description     string    `json:"description" gorm:"type:text"`
	EmploymentType  string    `json:"employmentType" gorm:"type:varchar(64)"`
	ExperienceLevel string    `json:"experienceLevel" gorm:"type:varchar(64)"`
	Salary          string    `json:"salary,omitempty" gorm:"type:varchar(128)"`
	Status          string    `json:"status,omitempty" gorm:"type:varchar(16);index"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

func (JobPosting) TableName() string { return "jobs" }
