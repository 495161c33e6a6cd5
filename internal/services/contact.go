package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"sgc-backend/internal/content"
	"sgc-backend/internal/models"
)

// whitespace is the browser's notion of \s, which includes Unicode spaces
// that RE2's \s does not.
const whitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	emailPattern = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-()` + whitespace + `]{10,15}$`)
)

type contactMessages struct {
	nameRequired    string
	emailRequired   string
	emailInvalid    string
	phoneInvalid    string
	messageRequired string
}

var contactErrors = map[models.Language]contactMessages{
	models.LanguageVietnamese: {
		nameRequired:    "Vui lòng nhập họ và tên.",
		emailRequired:   "Vui lòng nhập email doanh nghiệp.",
		emailInvalid:    "Định dạng email không hợp lệ.",
		phoneInvalid:    "Số điện thoại không hợp lệ (10-15 số).",
		messageRequired: "Vui lòng nhập nội dung tư vấn.",
	},
	models.LanguageEnglish: {
		nameRequired:    "Please enter your full name.",
		emailRequired:   "Please enter your business email.",
		emailInvalid:    "Invalid email format.",
		phoneInvalid:    "Invalid phone number format (10-15 digits).",
		messageRequired: "Please enter your message.",
	},
}

// ValidateContact checks a contact form and returns one localized message per
// failing field. An empty map means the form is valid.
func ValidateContact(req models.ContactRequest, lang models.Language) map[string]string {
	msgs, ok := contactErrors[lang]
	if !ok {
		msgs = contactErrors[models.DefaultLanguage]
	}

	fields := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = msgs.nameRequired
	}

	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = msgs.emailRequired
	} else if !emailPattern.MatchString(req.Email) {
		fields["email"] = msgs.emailInvalid
	}

	if strings.TrimSpace(req.Phone) != "" && !phonePattern.MatchString(req.Phone) {
		fields["phone"] = msgs.phoneInvalid
	}

	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = msgs.messageRequired
	}

	return fields
}

type ContactStore interface {
	Create(ctx context.Context, c *models.ContactSubmission) error
}

type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
}

type ContactService struct {
	contacts ContactStore
	jobs     JobStore
	queue    JobQueue
	logger   *zap.Logger
}

func NewContactService(contacts ContactStore, jobs JobStore, queue JobQueue, logger *zap.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		jobs:     jobs,
		queue:    queue,
		logger:   logger,
	}
}

// Submit validates and stores a contact request, then schedules the
// notification emails. The returned copy is the thank-you page in the
// visitor's language.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest, lang models.Language) (*models.ContactResponse, error) {
	if fields := ValidateContact(req, lang); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	submission := &models.ContactSubmission{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Message:  strings.TrimSpace(req.Message),
		Language: lang,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		submission.Phone = &phone
	}

	if err := s.contacts.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}

	job := &models.Job{
		Type:        models.JobTypeContactNotification,
		ReferenceID: submission.ID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create notification job: %w", err)
	}

	// The submission is already stored, so a queue failure is only logged.
	if err := s.queue.Enqueue(ctx, ContactNotificationQueue, job); err != nil {
		s.logger.Error("failed to enqueue contact notification",
			zap.String("submission_id", submission.ID.String()),
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("contact submission received",
		zap.String("submission_id", submission.ID.String()),
		zap.String("language", string(lang)),
	)

	thanks := content.For(lang).ThankYou
	return &models.ContactResponse{
		SubmissionID: submission.ID,
		Title:        thanks.Title,
		Message:      thanks.Message,
		BackHome:     thanks.BackHome,
	}, nil
}
