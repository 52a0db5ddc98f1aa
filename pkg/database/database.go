package database

import (
	"fmt"
	"log"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedRoles(db)

	return db, nil
}

// Migrate creates or updates the schema. Shared with the test helpers so
// service tests run against the same table layout.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Student{},
		&model.XPLedgerEntry{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.Ticket{},
		&model.TicketSubmission{},
		&model.StudentDomainMastery{},
		&model.Role{},
		&model.PromotionGate{},
		&model.StudentRole{},
		&model.EvidenceArtifact{},
		&model.LearningModule{},
		&model.Lesson{},
		&model.ActivityEvent{},
		&model.LoginStreak{},
		&model.WeeklyDomainLead{},
	)
}

// seedRoles installs the default role ladder and promotion gates when the
// roles table is empty.
func seedRoles(db *gorm.DB) {
	var count int64
	db.Model(&model.Role{}).Count(&count)
	if count > 0 {
		return
	}

	roles := []model.Role{
		{Name: "Trainee", RankOrder: 1, Description: "New enrollee working through onboarding content"},
		{Name: "Help Desk I", RankOrder: 2, Description: "Handles basic hardware and software tickets"},
		{Name: "Help Desk II", RankOrder: 3, Description: "Handles networking tickets and escalations"},
		{Name: "Junior SysAdmin", RankOrder: 4, Description: "Trusted with security and procedure work"},
	}
	for i := range roles {
		db.Create(&roles[i])
	}

	gates := []model.PromotionGate{
		{
			RoleID:            roles[1].ID,
			RequirementType:   model.GateVerifiedTicketsByDifficulty,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"1": 3, "2": 2}},
		},
		{
			RoleID:            roles[1].ID,
			RequirementType:   model.GateMasteryByDomain,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"hardware": 40}},
		},
		{
			RoleID:            roles[2].ID,
			RequirementType:   model.GateVerifiedTicketsByDifficulty,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"2": 4, "3": 2}},
		},
		{
			RoleID:            roles[2].ID,
			RequirementType:   model.GateMasteryByDomain,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"networking": 50}},
		},
		{
			RoleID:            roles[3].ID,
			RequirementType:   model.GateVerifiedTicketsByDifficulty,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"3": 4, "4": 2}},
		},
		{
			RoleID:            roles[3].ID,
			RequirementType:   model.GateMasteryByDomain,
			RequirementConfig: model.GateConfig{Thresholds: map[string]int{"security": 60, "software_troubleshooting": 60}},
		},
	}
	for i := range gates {
		db.Create(&gates[i])
	}
}
