package database

import (
	"context"
	"database/sql"

	"github.com/khrees2412/careerpath/pkg/models"
)

// Message operations

func (s *Store) SendMessage(ctx context.Context, m *models.Message) error {
	m.SentAt = s.timestamp(m.SentAt)
	query := `INSERT INTO messages (sender_id, receiver_id, subject, body, is_read, sent_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, nullID(m.SenderID), nullID(m.ReceiverID), nullIfEmpty(m.Subject),
		m.Body, false, m.SentAt)
	if err != nil {
		return err
	}
	m.ID = id
	m.IsRead = false
	return nil
}

const messageColumns = `id, sender_id, receiver_id, COALESCE(subject, ''), body, is_read, sent_at, read_at`

func scanMessage(row scanner) (*models.Message, error) {
	m := &models.Message{}
	var sender, receiver sql.NullInt64
	if err := row.Scan(&m.ID, &sender, &receiver, &m.Subject, &m.Body, &m.IsRead,
		ts(&m.SentAt), nullTS(&m.ReadAt)); err != nil {
		return nil, classify(err)
	}
	m.SenderID = int64Ptr(sender)
	m.ReceiverID = int64Ptr(receiver)
	return m, nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	return scanMessage(s.queryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id))
}

// Inbox returns the messages received by a user, newest first.
func (s *Store) Inbox(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE receiver_id = ?`
	if unreadOnly {
		query += ` AND is_read = ?`
	}
	query += ` ORDER BY sent_at DESC, id DESC`
	args := []any{userID}
	if unreadOnly {
		args = append(args, false)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, classify(rows.Err())
}

func (s *Store) MarkMessageRead(ctx context.Context, id int64) error {
	return s.execOne(ctx, "message", `UPDATE messages SET is_read = ?, read_at = ? WHERE id = ?`,
		true, s.now(), id)
}

// Notification operations

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.Kind == "" {
		n.Kind = models.NotificationInfo
	}
	n.CreatedAt = s.timestamp(n.CreatedAt)
	query := `INSERT INTO notifications (user_id, kind, title, body, is_read, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, n.UserID, string(n.Kind), n.Title, nullIfEmpty(n.Body), false, n.CreatedAt)
	if err != nil {
		return err
	}
	n.ID = id
	n.IsRead = false
	return nil
}

// UnreadNotifications returns a user's unread notifications, newest first.
func (s *Store) UnreadNotifications(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `SELECT id, user_id, kind, title, COALESCE(body, ''), is_read, created_at
			  FROM notifications WHERE user_id = ? AND is_read = ? ORDER BY created_at DESC, id DESC`
	rows, err := s.query(ctx, query, userID, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var kind string
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Body, &n.IsRead, ts(&n.CreatedAt)); err != nil {
			return nil, err
		}
		n.Kind = models.NotificationKind(kind)
		out = append(out, n)
	}
	return out, classify(rows.Err())
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	return s.execOne(ctx, "notification", `UPDATE notifications SET is_read = ? WHERE id = ?`, true, id)
}

// Upload operations

// RecordUpload stores the metadata of a blob hosted elsewhere.
func (s *Store) RecordUpload(ctx context.Context, u *models.Upload) error {
	u.UploadedAt = s.timestamp(u.UploadedAt)
	query := `INSERT INTO uploads (owner_id, file_name, file_url, mime_type, size_bytes, uploaded_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, nullID(u.OwnerID), u.FileName, u.FileURL, nullIfEmpty(u.MimeType),
		u.SizeBytes, u.UploadedAt)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *Store) GetUpload(ctx context.Context, id int64) (*models.Upload, error) {
	u := &models.Upload{}
	var owner sql.NullInt64
	err := s.queryRow(ctx, `SELECT id, owner_id, file_name, file_url, COALESCE(mime_type, ''), size_bytes, uploaded_at
			  FROM uploads WHERE id = ?`, id).
		Scan(&u.ID, &owner, &u.FileName, &u.FileURL, &u.MimeType, &u.SizeBytes, ts(&u.UploadedAt))
	if err != nil {
		return nil, classify(err)
	}
	u.OwnerID = int64Ptr(owner)
	return u, nil
}

func (s *Store) DeleteUpload(ctx context.Context, id int64) error {
	return s.execOne(ctx, "upload", `DELETE FROM uploads WHERE id = ?`, id)
}

// Assignment operations

func (s *Store) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	a.CreatedAt = s.timestamp(a.CreatedAt)
	query := `INSERT INTO assignments (created_by, title, description, due_date, created_at)
			  VALUES (?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, nullID(a.CreatedBy), a.Title, nullIfEmpty(a.Description),
		nullTime(a.DueDate), a.CreatedAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	a := &models.Assignment{}
	var author sql.NullInt64
	err := s.queryRow(ctx, `SELECT id, created_by, title, COALESCE(description, ''), due_date, created_at
			  FROM assignments WHERE id = ?`, id).
		Scan(&a.ID, &author, &a.Title, &a.Description, nullTS(&a.DueDate), ts(&a.CreatedAt))
	if err != nil {
		return nil, classify(err)
	}
	a.CreatedBy = int64Ptr(author)
	return a, nil
}

// Submit records a student's submission. One submission per student and
// assignment; a second one is an ErrIntegrityViolation.
func (s *Store) Submit(ctx context.Context, sub *models.Submission) error {
	sub.SubmittedAt = s.timestamp(sub.SubmittedAt)
	query := `INSERT INTO submissions (assignment_id, student_id, upload_id, content, submitted_at)
			  VALUES (?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, sub.AssignmentID, sub.StudentID, nullID(sub.UploadID),
		nullIfEmpty(sub.Content), sub.SubmittedAt)
	if err != nil {
		return err
	}
	sub.ID = id
	return nil
}

// Grade sets the 0-100 grade of a submission.
func (s *Store) Grade(ctx context.Context, submissionID int64, grade int) error {
	return s.execOne(ctx, "submission", `UPDATE submissions SET grade = ? WHERE id = ?`, grade, submissionID)
}

func (s *Store) Submissions(ctx context.Context, assignmentID int64) ([]*models.Submission, error) {
	query := `SELECT id, assignment_id, student_id, upload_id, COALESCE(content, ''), grade, submitted_at
			  FROM submissions WHERE assignment_id = ? ORDER BY submitted_at, id`
	rows, err := s.query(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Submission{}
	for rows.Next() {
		sub := &models.Submission{}
		var upload, grade sql.NullInt64
		if err := rows.Scan(&sub.ID, &sub.AssignmentID, &sub.StudentID, &upload, &sub.Content, &grade,
			ts(&sub.SubmittedAt)); err != nil {
			return nil, err
		}
		sub.UploadID = int64Ptr(upload)
		if grade.Valid {
			g := int(grade.Int64)
			sub.Grade = &g
		}
		out = append(out, sub)
	}
	return out, classify(rows.Err())
}

// Audit operations

// Audit appends an entry. Details, when set, must be valid JSON.
func (s *Store) Audit(ctx context.Context, entry *models.AuditLog) error {
	entry.CreatedAt = s.timestamp(entry.CreatedAt)
	query := `INSERT INTO audit_logs (user_id, action, entity_type, entity_id, details, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	id, err := s.insert(ctx, query, nullID(entry.UserID), entry.Action, nullIfEmpty(entry.EntityType),
		nullID(entry.EntityID), entry.Details, entry.CreatedAt)
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// AuditTrail returns the entries about one entity, oldest first.
func (s *Store) AuditTrail(ctx context.Context, entityType string, entityID int64) ([]*models.AuditLog, error) {
	query := `SELECT id, user_id, action, COALESCE(entity_type, ''), entity_id, details, created_at
			  FROM audit_logs WHERE entity_type = ? AND entity_id = ? ORDER BY created_at, id`
	rows, err := s.query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.AuditLog{}
	for rows.Next() {
		a := &models.AuditLog{}
		var user, entity sql.NullInt64
		if err := rows.Scan(&a.ID, &user, &a.Action, &a.EntityType, &entity, &a.Details,
			ts(&a.CreatedAt)); err != nil {
			return nil, err
		}
		a.UserID = int64Ptr(user)
		a.EntityID = int64Ptr(entity)
		out = append(out, a)
	}
	return out, classify(rows.Err())
}
