package po

import "time"

// JobPO 任务持久化对象. files列存FileList的JSON文本
type JobPO struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	JobUUID     string    `gorm:"uniqueIndex;size:36;not null" json:"job_uuid"`
	Script      string    `gorm:"type:text;not null" json:"script"`
	Step        string    `gorm:"size:32;not null;default:''" json:"step"`
	Status      string    `gorm:"index;size:20;not null" json:"status"`
	Progress    int       `gorm:"default:0" json:"progress"`
	Files       string    `gorm:"type:json" json:"files"`
	ProjectUUID string    `gorm:"index;size:36" json:"project_uuid"`
	CompanyUUID string    `gorm:"index;size:36" json:"company_uuid"`
	UserUUID    string    `gorm:"index;size:36" json:"user_uuid"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (JobPO) TableName() string {
	return "jobs"
}
