package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
)

// SQLiteStore persists every collection in a single sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and runs
// migrations. WAL mode and a busy timeout keep concurrent request handlers
// from tripping over each other.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateUser(ctx context.Context, in NewUser) (comm.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return comm.User{}, fmt.Errorf("username and password are required: %w", ErrInvalid)
	}

	user := comm.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  in.Password,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.Password, formatTime(user.CreatedAt))
	if err != nil {
		return comm.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (comm.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (comm.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM users WHERE username = ?`, username)
	return scanUser(row, username)
}

func scanUser(row *sql.Row, ref string) (comm.User, error) {
	var user comm.User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.User{}, fmt.Errorf("user %s: %w", ref, ErrNotFound)
		}
		return comm.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	user.CreatedAt = parseTime(createdAt)
	return user, nil
}

func (s *SQLiteStore) CreateInquiry(ctx context.Context, in NewInquiry) (comm.Inquiry, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inquiries (id, type, content, language, detected_language, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inquiry.ID, string(inquiry.Type), inquiry.Content, inquiry.Language,
		nullString(inquiry.DetectedLanguage), inquiry.UserID, formatTime(inquiry.CreatedAt))
	if err != nil {
		return comm.Inquiry{}, fmt.Errorf("failed to insert inquiry: %w", err)
	}
	return inquiry, nil
}

const inquiryColumns = `id, type, content, language, detected_language, user_id, created_at`

func (s *SQLiteStore) GetInquiry(ctx context.Context, id string) (comm.Inquiry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`, id)

	inquiry, err := scanInquiry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Inquiry{}, fmt.Errorf("inquiry %s: %w", id, ErrNotFound)
		}
		return comm.Inquiry{}, err
	}
	return inquiry, nil
}

func (s *SQLiteStore) ListInquiriesByUser(ctx context.Context, userID string) ([]comm.Inquiry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]comm.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiry(rows.Scan)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, rows.Err()
}

func (s *SQLiteStore) UpdateInquiry(ctx context.Context, id string, patch InquiryPatch) (comm.Inquiry, error) {
	if patch.DetectedLanguage != nil {
		res, err := s.db.ExecContext(ctx,
			`UPDATE inquiries SET detected_language = ? WHERE id = ?`, *patch.DetectedLanguage, id)
		if err != nil {
			return comm.Inquiry{}, fmt.Errorf("failed to update inquiry: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return comm.Inquiry{}, fmt.Errorf("inquiry %s: %w", id, ErrNotFound)
		}
	}
	return s.GetInquiry(ctx, id)
}

func scanInquiry(scan func(...any) error) (comm.Inquiry, error) {
	var inquiry comm.Inquiry
	var typ, createdAt string
	var detected sql.NullString
	if err := scan(&inquiry.ID, &typ, &inquiry.Content, &inquiry.Language,
		&detected, &inquiry.UserID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Inquiry{}, err
		}
		return comm.Inquiry{}, fmt.Errorf("failed to scan inquiry: %w", err)
	}
	inquiry.Type = comm.InquiryType(typ)
	if detected.Valid {
		inquiry.DetectedLanguage = detected.String
	}
	inquiry.CreatedAt = parseTime(createdAt)
	return inquiry, nil
}

func (s *SQLiteStore) CreateResponse(ctx context.Context, in NewResponse) (comm.Response, error) {
	if err := validateNewResponse(in); err != nil {
		return comm.Response{}, err
	}
	if _, err := s.GetInquiry(ctx, in.InquiryID); err != nil {
		return comm.Response{}, err
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (id, inquiry_id, content, language, tone, status, response_time, generated_at, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		response.ID, response.InquiryID, response.Content, response.Language,
		response.Tone, response.Status, response.ResponseTime, formatTime(response.GeneratedAt))
	if err != nil {
		return comm.Response{}, fmt.Errorf("failed to insert response: %w", err)
	}
	return response, nil
}

const responseColumns = `id, inquiry_id, content, language, tone, status, response_time, generated_at, sent_at`

func (s *SQLiteStore) GetResponse(ctx context.Context, id string) (comm.Response, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE id = ?`, id)

	response, err := scanResponse(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Response{}, fmt.Errorf("response %s: %w", id, ErrNotFound)
		}
		return comm.Response{}, err
	}
	return response, nil
}

func (s *SQLiteStore) UpdateResponse(ctx context.Context, id string, patch ResponsePatch) (comm.Response, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *patch.Language)
	}
	if patch.Tone != nil {
		sets = append(sets, "tone = ?")
		args = append(args, *patch.Tone)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.SentAt != nil {
		sets = append(sets, "sent_at = ?")
		args = append(args, formatTime(*patch.SentAt))
	}

	if len(sets) > 0 {
		args = append(args, id)
		res, err := s.db.ExecContext(ctx,
			`UPDATE responses SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return comm.Response{}, fmt.Errorf("failed to update response: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return comm.Response{}, fmt.Errorf("response %s: %w", id, ErrNotFound)
		}
	}
	return s.GetResponse(ctx, id)
}

func (s *SQLiteStore) ListResponsesByInquiry(ctx context.Context, inquiryID string) ([]comm.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE inquiry_id = ?`, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (s *SQLiteStore) ListResponsesByUser(ctx context.Context, userID string) ([]comm.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.inquiry_id, r.content, r.language, r.tone, r.status, r.response_time, r.generated_at, r.sent_at
		 FROM responses r JOIN inquiries i ON i.id = r.inquiry_id
		 WHERE i.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (s *SQLiteStore) RecentResponses(ctx context.Context, userID string, limit int) ([]comm.Response, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.inquiry_id, r.content, r.language, r.tone, r.status, r.response_time, r.generated_at, r.sent_at
		 FROM responses r JOIN inquiries i ON i.id = r.inquiry_id
		 WHERE i.user_id = ?
		 ORDER BY r.generated_at DESC, r.id DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent responses: %w", err)
	}
	defer rows.Close()
	return collectResponses(rows)
}

func collectResponses(rows *sql.Rows) ([]comm.Response, error) {
	responses := make([]comm.Response, 0)
	for rows.Next() {
		response, err := scanResponse(rows.Scan)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

func scanResponse(scan func(...any) error) (comm.Response, error) {
	var response comm.Response
	var generatedAt string
	var sentAt sql.NullString
	if err := scan(&response.ID, &response.InquiryID, &response.Content, &response.Language,
		&response.Tone, &response.Status, &response.ResponseTime, &generatedAt, &sentAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Response{}, err
		}
		return comm.Response{}, fmt.Errorf("failed to scan response: %w", err)
	}
	response.GeneratedAt = parseTime(generatedAt)
	if sentAt.Valid {
		t := parseTime(sentAt.String)
		response.SentAt = &t
	}
	return response, nil
}

func (s *SQLiteStore) CreateTemplate(ctx context.Context, in NewTemplate) (comm.Template, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, type, content, language, usage_count, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		template.ID, template.Name, string(template.Type), template.Content,
		template.Language, template.UserID, formatTime(template.CreatedAt))
	if err != nil {
		return comm.Template{}, fmt.Errorf("failed to insert template: %w", err)
	}
	return template, nil
}

const templateColumns = `id, name, type, content, language, usage_count, user_id, created_at`

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (comm.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)

	template, err := scanTemplate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return comm.Template{}, err
	}
	return template, nil
}

func (s *SQLiteStore) ListTemplatesByUser(ctx context.Context, userID string) ([]comm.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (s *SQLiteStore) ListTemplatesByType(ctx context.Context, userID string, typ comm.InquiryType) ([]comm.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE user_id = ? AND type = ? ORDER BY created_at, id`,
		userID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (s *SQLiteStore) IncrementTemplateUsage(ctx context.Context, id string) (comm.Template, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return comm.Template{}, fmt.Errorf("failed to increment template usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return comm.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return s.GetTemplate(ctx, id)
}

func collectTemplates(rows *sql.Rows) ([]comm.Template, error) {
	templates := make([]comm.Template, 0)
	for rows.Next() {
		template, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

func scanTemplate(scan func(...any) error) (comm.Template, error) {
	var template comm.Template
	var typ, createdAt string
	if err := scan(&template.ID, &template.Name, &typ, &template.Content,
		&template.Language, &template.UsageCount, &template.UserID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return comm.Template{}, err
		}
		return comm.Template{}, fmt.Errorf("failed to scan template: %w", err)
	}
	template.Type = comm.InquiryType(typ)
	template.CreatedAt = parseTime(createdAt)
	return template, nil
}

func (s *SQLiteStore) AppendActivity(ctx context.Context, in NewActivity) (comm.Activity, error) {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, type, description, user_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		activity.ID, string(activity.Type), activity.Description, activity.UserID, formatTime(activity.CreatedAt))
	if err != nil {
		return comm.Activity{}, fmt.Errorf("failed to insert activity: %w", err)
	}
	return activity, nil
}

func (s *SQLiteStore) ListActivitiesByUser(ctx context.Context, userID string, limit int) ([]comm.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, description, user_id, created_at FROM activities
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]comm.Activity, 0)
	for rows.Next() {
		var activity comm.Activity
		var typ, createdAt string
		if err := rows.Scan(&activity.ID, &typ, &activity.Description, &activity.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activity.Type = comm.ActivityType(typ)
		activity.CreatedAt = parseTime(createdAt)
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// Timestamps are stored as RFC3339Nano strings so lexical ORDER BY matches
// chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
