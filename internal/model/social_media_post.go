package model

import "time"

// SocialMediaPost 分发审计记录，只插入不更新
type SocialMediaPost struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JobID           int64     `json:"jobId" gorm:"index:idx_smp_job_created;not null"`
	PlatformsPosted []string  `json:"platformsPosted" gorm:"serializer:json;type:text"`
	Results         string    `json:"results" gorm:"type:text;not null"`
	SuccessCount    int       `json:"successCount"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index:idx_smp_job_created"`
}

func (SocialMediaPost) TableName() string { return "social_media_posts" }
