package model

// LearningModule is an ordered block of lessons. A module can be gated on
// mastery of its prerequisite module.
type LearningModule struct {
	BaseModel
	Title                 string `gorm:"size:255;not null" json:"title"`
	Description           string `gorm:"type:text" json:"description"`
	WeekNumber            int    `gorm:"not null" json:"weekNumber"`
	Order                 int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	PrerequisiteModuleID  *uint  `gorm:"index" json:"prerequisiteModuleId"`
	UnlockThresholdPct    int    `gorm:"not null;default:70" json:"unlockThresholdPct"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (LearningModule) TableName() string {
	return "learning_modules"
}

type Lesson struct {
	BaseModel
	ModuleID        uint   `gorm:"index;not null" json:"moduleId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Content         string `gorm:"type:text" json:"content"`
	VideoURL        string `gorm:"size:512" json:"videoUrl"`
	DurationSeconds int    `gorm:"not null;default:0" json:"durationSeconds"`
	Order           int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
