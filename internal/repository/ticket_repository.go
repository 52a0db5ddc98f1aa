package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type TicketRepository struct {
	DB *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) Create(ticket *model.Ticket) error {
	return r.DB.Create(ticket).Error
}

func (r *TicketRepository) FindByID(id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.DB.First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTicketNotFound
	}
	return &ticket, err
}

func (r *TicketRepository) List(weekNumber *int) ([]model.Ticket, error) {
	var tickets []model.Ticket
	query := r.DB.Model(&model.Ticket{})
	if weekNumber != nil {
		query = query.Where("week_number = ?", *weekNumber)
	}
	err := query.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *TicketRepository) FindSubmission(studentID, ticketID uint) (*model.TicketSubmission, error) {
	var submission model.TicketSubmission
	err := r.DB.Where("student_id = ? AND ticket_id = ?", studentID, ticketID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *TicketRepository) FindSubmissionByID(id uint) (*model.TicketSubmission, error) {
	var submission model.TicketSubmission
	err := r.DB.First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	return &submission, err
}

func (r *TicketRepository) ListSubmissions(studentID, ticketID *uint) ([]model.TicketSubmission, error) {
	var submissions []model.TicketSubmission
	query := r.DB.Model(&model.TicketSubmission{})
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if ticketID != nil {
		query = query.Where("ticket_id = ?", *ticketID)
	}
	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// ListSubmissionsByStatus feeds the admin review queue, oldest first.
func (r *TicketRepository) ListSubmissionsByStatus(status string) ([]model.TicketSubmission, error) {
	var submissions []model.TicketSubmission
	err := r.DB.Where("status = ?", status).Order("submitted_at ASC").Find(&submissions).Error
	return submissions, err
}

func (r *TicketRepository) ListSubmissionsByStudent(studentID uint) ([]model.TicketSubmission, error) {
	var submissions []model.TicketSubmission
	err := r.DB.Where("student_id = ?", studentID).Find(&submissions).Error
	return submissions, err
}

// CountVerifiedByDifficulty counts passed submissions per ticket
// difficulty tier for one student.
func (r *TicketRepository) CountVerifiedByDifficulty(studentID uint) (map[int]int, error) {
	type row struct {
		Difficulty int
		Count      int
	}
	var rows []row
	err := r.DB.Model(&model.TicketSubmission{}).
		Select("tickets.difficulty AS difficulty, COUNT(ticket_submissions.id) AS count").
		Joins("JOIN tickets ON tickets.id = ticket_submissions.ticket_id").
		Where("ticket_submissions.student_id = ? AND ticket_submissions.status = ?", studentID, model.SubmissionPassed).
		Group("tickets.difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.Difficulty] = r.Count
	}
	return counts, nil
}
