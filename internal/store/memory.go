package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
)

// MemoryStore keeps every collection in process. Suitable for development
// and tests; state is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]comm.User
	inquiries  map[string]comm.Inquiry
	responses  map[string]comm.Response
	templates  map[string]comm.Template
	activities map[string]comm.Activity
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]comm.User),
		inquiries:  make(map[string]comm.Inquiry),
		responses:  make(map[string]comm.Response),
		templates:  make(map[string]comm.Template),
		activities: make(map[string]comm.Activity),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, in NewUser) (comm.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return comm.User{}, fmt.Errorf("username and password are required: %w", ErrInvalid)
	}

	user := comm.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  in.Password,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()

	return user, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (comm.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return comm.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (comm.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return comm.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

func (s *MemoryStore) CreateInquiry(_ context.Context, in NewInquiry) (comm.Inquiry, error) {
	if err := validateNewInquiry(in); err != nil {
		return comm.Inquiry{}, err
	}

	inquiry := comm.Inquiry{
		ID:               uuid.NewString(),
		Type:             in.Type,
		Content:          in.Content,
		Language:         in.Language,
		DetectedLanguage: in.DetectedLanguage,
		UserID:           in.UserID,
		CreatedAt:        time.Now().UTC(),
	}

	s.mu.Lock()
	s.inquiries[inquiry.ID] = inquiry
	s.mu.Unlock()

	return inquiry, nil
}

func (s *MemoryStore) GetInquiry(_ context.Context, id string) (comm.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inquiry, ok := s.inquiries[id]
	if !ok {
		return comm.Inquiry{}, fmt.Errorf("inquiry %s: %w", id, ErrNotFound)
	}
	return inquiry, nil
}

func (s *MemoryStore) ListInquiriesByUser(_ context.Context, userID string) ([]comm.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inquiries := make([]comm.Inquiry, 0)
	for _, inquiry := range s.inquiries {
		if inquiry.UserID == userID {
			inquiries = append(inquiries, inquiry)
		}
	}
	return inquiries, nil
}

func (s *MemoryStore) UpdateInquiry(_ context.Context, id string, patch InquiryPatch) (comm.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inquiry, ok := s.inquiries[id]
	if !ok {
		return comm.Inquiry{}, fmt.Errorf("inquiry %s: %w", id, ErrNotFound)
	}

	if patch.DetectedLanguage != nil {
		inquiry.DetectedLanguage = *patch.DetectedLanguage
	}

	s.inquiries[id] = inquiry
	return inquiry, nil
}

func (s *MemoryStore) CreateResponse(_ context.Context, in NewResponse) (comm.Response, error) {
	if err := validateNewResponse(in); err != nil {
		return comm.Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inquiries[in.InquiryID]; !ok {
		return comm.Response{}, fmt.Errorf("inquiry %s: %w", in.InquiryID, ErrNotFound)
	}

	response := comm.Response{
		ID:           uuid.NewString(),
		InquiryID:    in.InquiryID,
		Content:      in.Content,
		Language:     in.Language,
		Tone:         in.Tone,
		Status:       comm.ResponseDraft,
		ResponseTime: in.ResponseTime,
		GeneratedAt:  time.Now().UTC(),
	}

	s.responses[response.ID] = response
	return response, nil
}

func (s *MemoryStore) GetResponse(_ context.Context, id string) (comm.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	response, ok := s.responses[id]
	if !ok {
		return comm.Response{}, fmt.Errorf("response %s: %w", id, ErrNotFound)
	}
	return response, nil
}

func (s *MemoryStore) UpdateResponse(_ context.Context, id string, patch ResponsePatch) (comm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.responses[id]
	if !ok {
		return comm.Response{}, fmt.Errorf("response %s: %w", id, ErrNotFound)
	}

	if patch.Content != nil {
		response.Content = *patch.Content
	}
	if patch.Language != nil {
		response.Language = *patch.Language
	}
	if patch.Tone != nil {
		response.Tone = *patch.Tone
	}
	if patch.Status != nil {
		response.Status = *patch.Status
	}
	if patch.SentAt != nil {
		sentAt := *patch.SentAt
		response.SentAt = &sentAt
	}

	s.responses[id] = response
	return response, nil
}

func (s *MemoryStore) ListResponsesByInquiry(_ context.Context, inquiryID string) ([]comm.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	responses := make([]comm.Response, 0)
	for _, response := range s.responses {
		if response.InquiryID == inquiryID {
			responses = append(responses, response)
		}
	}
	return responses, nil
}

func (s *MemoryStore) ListResponsesByUser(_ context.Context, userID string) ([]comm.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.responsesByUserLocked(userID), nil
}

func (s *MemoryStore) RecentResponses(_ context.Context, userID string, limit int) ([]comm.Response, error) {
	s.mu.RLock()
	responses := s.responsesByUserLocked(userID)
	s.mu.RUnlock()

	sort.Slice(responses, func(i, j int) bool {
		if !responses[i].GeneratedAt.Equal(responses[j].GeneratedAt) {
			return responses[i].GeneratedAt.After(responses[j].GeneratedAt)
		}
		return responses[i].ID > responses[j].ID
	})

	if limit > 0 && len(responses) > limit {
		responses = responses[:limit]
	}
	return responses, nil
}

// responsesByUserLocked collects responses to the user's inquiries. Caller
// must hold at least a read lock.
func (s *MemoryStore) responsesByUserLocked(userID string) []comm.Response {
	owned := make(map[string]bool)
	for _, inquiry := range s.inquiries {
		if inquiry.UserID == userID {
			owned[inquiry.ID] = true
		}
	}

	responses := make([]comm.Response, 0)
	for _, response := range s.responses {
		if owned[response.InquiryID] {
			responses = append(responses, response)
		}
	}
	return responses
}

func (s *MemoryStore) CreateTemplate(_ context.Context, in NewTemplate) (comm.Template, error) {
	if err := validateNewTemplate(in); err != nil {
		return comm.Template{}, err
	}

	template := comm.Template{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Type:      in.Type,
		Content:   in.Content,
		Language:  in.Language,
		UserID:    in.UserID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.templates[template.ID] = template
	s.mu.Unlock()

	return template, nil
}

func (s *MemoryStore) GetTemplate(_ context.Context, id string) (comm.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	template, ok := s.templates[id]
	if !ok {
		return comm.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return template, nil
}

func (s *MemoryStore) ListTemplatesByUser(_ context.Context, userID string) ([]comm.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]comm.Template, 0)
	for _, template := range s.templates {
		if template.UserID == userID {
			templates = append(templates, template)
		}
	}
	sortTemplates(templates)
	return templates, nil
}

func (s *MemoryStore) ListTemplatesByType(_ context.Context, userID string, typ comm.InquiryType) ([]comm.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make([]comm.Template, 0)
	for _, template := range s.templates {
		if template.UserID == userID && template.Type == typ {
			templates = append(templates, template)
		}
	}
	sortTemplates(templates)
	return templates, nil
}

func (s *MemoryStore) IncrementTemplateUsage(_ context.Context, id string) (comm.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	template, ok := s.templates[id]
	if !ok {
		return comm.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}

	template.UsageCount++
	s.templates[id] = template
	return template, nil
}

func (s *MemoryStore) AppendActivity(_ context.Context, in NewActivity) (comm.Activity, error) {
	if in.Type == "" || strings.TrimSpace(in.Description) == "" {
		return comm.Activity{}, fmt.Errorf("activity type and description are required: %w", ErrInvalid)
	}

	activity := comm.Activity{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Description: in.Description,
		UserID:      in.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.activities[activity.ID] = activity
	s.mu.Unlock()

	return activity, nil
}

func (s *MemoryStore) ListActivitiesByUser(_ context.Context, userID string, limit int) ([]comm.Activity, error) {
	s.mu.RLock()
	activities := make([]comm.Activity, 0)
	for _, activity := range s.activities {
		if activity.UserID == userID {
			activities = append(activities, activity)
		}
	}
	s.mu.RUnlock()

	sort.Slice(activities, func(i, j int) bool {
		if !activities[i].CreatedAt.Equal(activities[j].CreatedAt) {
			return activities[i].CreatedAt.After(activities[j].CreatedAt)
		}
		return activities[i].ID > activities[j].ID
	})

	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func sortTemplates(templates []comm.Template) {
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].CreatedAt.Equal(templates[j].CreatedAt) {
			return templates[i].CreatedAt.Before(templates[j].CreatedAt)
		}
		return templates[i].ID < templates[j].ID
	})
}

func validateNewInquiry(in NewInquiry) error {
	if !comm.ValidInquiryType(in.Type) {
		return fmt.Errorf("unknown inquiry type %q: %w", in.Type, ErrInvalid)
	}
	if strings.TrimSpace(in.Content) == "" || in.Language == "" || in.UserID == "" {
		return fmt.Errorf("content, language and userId are required: %w", ErrInvalid)
	}
	return nil
}

func validateNewResponse(in NewResponse) error {
	if in.InquiryID == "" || in.Content == "" || in.Language == "" {
		return fmt.Errorf("inquiryId, content and language are required: %w", ErrInvalid)
	}
	return nil
}

func validateNewTemplate(in NewTemplate) error {
	if !comm.ValidInquiryType(in.Type) {
		return fmt.Errorf("unknown template type %q: %w", in.Type, ErrInvalid)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Content) == "" || in.Language == "" || in.UserID == "" {
		return fmt.Errorf("name, content, language and userId are required: %w", ErrInvalid)
	}
	return nil
}
