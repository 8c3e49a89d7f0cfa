package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
)

// InterviewRemote is the part of the remote service the interview store needs.
type InterviewRemote interface {
	CreateInterview(ctx context.Context, userID string, iv *models.Interview) error
	ListInterviews(ctx context.Context, userID string) ([]models.Interview, error)
	GetInterview(ctx context.Context, userID, interviewID string) (*models.Interview, error)
	UpdateInterview(ctx context.Context, userID, interviewID string, fields map[string]any) error
	DeleteInterview(ctx context.Context, userID, interviewID string) error
}

// Session is the signed-in state the interview store reads.
type Session interface {
	UserID() string
	IsLoggedIn() bool
}

// InterviewStore holds the signed-in user's interview list.
type InterviewStore struct {
	remote  InterviewRemote
	session Session
	notify  Notifier
	log     *logger.Logger
	now     func() time.Time
	newID   func() string

	mu         sync.RWMutex
	interviews []models.Interview

	observers observers
}

// NewInterviewStore creates an empty InterviewStore.
func NewInterviewStore(remote InterviewRemote, session Session, notify Notifier, log *logger.Logger) *InterviewStore {
	return &InterviewStore{
		remote:     remote,
		session:    session,
		notify:     notify,
		log:        log.Component("interview_store"),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
		interviews: []models.Interview{},
	}
}

// FetchInterviews replaces the list with the user's interviews, newest first.
// Does nothing when signed out. On failure the list is left as it was.
func (s *InterviewStore) FetchInterviews(ctx context.Context) error {
	if !s.session.IsLoggedIn() {
		return nil
	}

	list, err := s.remote.ListInterviews(ctx, s.session.UserID())
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch interviews")
		s.notify.Error(err)
		return err
	}

	s.mu.Lock()
	s.interviews = list
	s.mu.Unlock()

	s.observers.notify()
	return nil
}

// DeleteInterview deletes one interview and refetches the list.
// Does nothing when signed out.
func (s *InterviewStore) DeleteInterview(ctx context.Context, id string) error {
	if !s.session.IsLoggedIn() {
		return nil
	}

	if err := s.remote.DeleteInterview(ctx, s.session.UserID(), id); err != nil {
		s.log.Warn().Err(err).Str("interview_id", id).Msg("failed to delete interview")
		s.notify.Error(err)
		return err
	}

	return s.FetchInterviews(ctx)
}

// AddInterview stores a new interview built from in and refetches the list.
// The id and creation time are assigned here; the status defaults to pending.
func (s *InterviewStore) AddInterview(ctx context.Context, in models.InterviewInput) (*models.Interview, error) {
	if !s.session.IsLoggedIn() {
		return nil, ErrSignedOut
	}

	iv := &models.Interview{
		ID:               s.newID(),
		CompanyName:      in.CompanyName,
		VacancyLink:      in.VacancyLink,
		HRName:           in.HRName,
		TelegramUsername: in.TelegramUsername,
		WhatsAppUsername: in.WhatsAppUsername,
		HRPhoneNumber:    in.HRPhoneNumber,
		SalaryFrom:       in.SalaryFrom,
		SalaryTo:         in.SalaryTo,
		Stages:           in.Stages,
		Status:           in.Status,
		CreatedAt:        s.now().UTC(),
	}
	if iv.Status == "" {
		iv.Status = models.InterviewStatusPending
	}

	if err := s.remote.CreateInterview(ctx, s.session.UserID(), iv); err != nil {
		s.log.Warn().Err(err).Msg("failed to create interview")
		s.notify.Error(err)
		return nil, err
	}

	if err := s.FetchInterviews(ctx); err != nil {
		return iv, err
	}
	return iv, nil
}

// UpdateInterview merges the fields of in into an existing interview and
// refetches the list.
func (s *InterviewStore) UpdateInterview(ctx context.Context, id string, in models.InterviewInput) error {
	if !s.session.IsLoggedIn() {
		return ErrSignedOut
	}

	if err := s.remote.UpdateInterview(ctx, s.session.UserID(), id, in.Fields()); err != nil {
		s.log.Warn().Err(err).Str("interview_id", id).Msg("failed to update interview")
		s.notify.Error(err)
		return err
	}

	return s.FetchInterviews(ctx)
}

// GetInterview reads one interview straight from the backend.
func (s *InterviewStore) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	if !s.session.IsLoggedIn() {
		return nil, ErrSignedOut
	}

	iv, err := s.remote.GetInterview(ctx, s.session.UserID(), id)
	if err != nil {
		s.notify.Error(err)
		return nil, err
	}
	return iv, nil
}

// Interviews returns a copy of the current list.
func (s *InterviewStore) Interviews() []models.Interview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Interview, len(s.interviews))
	copy(out, s.interviews)
	return out
}

// Stats counts the current list per status.
func (s *InterviewStore) Stats() models.InterviewStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CountInterviews(s.interviews)
}

// Subscribe registers fn to run after every list change.
func (s *InterviewStore) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}
