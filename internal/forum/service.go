package forum

import (
	"context"
	"strings"
	"time"

	"github.com/campusweb/portal-backend/pkg/docstore"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
)

// Collection is the collection name forum messages live under.
const Collection = "messages"

// Service defines course forum operations. Sends go through the
// optimistic writer: the message is visible to the caller under a temp
// key while the store confirms it, and the returned record carries the
// permanent key.
type Service interface {
	Send(ctx context.Context, courseID, sender, content string) (Message, error)
	BeginSend(courseID, sender, content string) (*docstore.Pending[Message], error)
	Submit(ctx context.Context, pending *docstore.Pending[Message]) (Message, error)
	Overlay(pending []*docstore.Pending[Message], snapshot []Message) []Message
	ListByCourse(ctx context.Context, courseID string) ([]Message, error)
	ListBySender(ctx context.Context, sender string) ([]Message, error)
	ListRecent(ctx context.Context, limit int) ([]Message, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Message, error)
	Stream(ctx context.Context, courseID string) (*docstore.Subscription[Message], error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	col *docstore.Collection[Message]
	opt *docstore.Optimistic[Message]
	now func() time.Time
}

// NewService wires forum dependencies.
func NewService(col *docstore.Collection[Message]) (Service, error) {
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "messages collection required")
	}
	opt, err := docstore.NewOptimistic(col, sameMessage)
	if err != nil {
		return nil, err
	}
	return &service{col: col, opt: opt, now: time.Now}, nil
}

// sameMessage matches a pending message against a stored one by
// content, since the pending copy carries a temp key.
func sameMessage(local, remote Message) bool {
	return local.CourseID == remote.CourseID &&
		local.Sender == remote.Sender &&
		local.Content == remote.Content &&
		local.Timestamp == remote.Timestamp
}

// BeginSend stamps a draft message for immediate local display.
func (s *service) BeginSend(courseID, sender, content string) (*docstore.Pending[Message], error) {
	if strings.TrimSpace(sender) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content required")
	}

	return s.opt.Begin(Message{
		Sender:    sender,
		Content:   content,
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
		CourseID:  courseID,
	}), nil
}

// Submit persists a pending message under its permanent key.
func (s *service) Submit(ctx context.Context, pending *docstore.Pending[Message]) (Message, error) {
	return s.opt.Submit(ctx, pending)
}

// Send is BeginSend plus Submit: post the message and wait for the
// store to confirm it rather than re-fetching after a fixed delay.
func (s *service) Send(ctx context.Context, courseID, sender, content string) (Message, error) {
	pending, err := s.BeginSend(courseID, sender, content)
	if err != nil {
		return Message{}, err
	}
	return s.opt.Submit(ctx, pending)
}

// Overlay merges still-pending sends into a store snapshot.
func (s *service) Overlay(pending []*docstore.Pending[Message], snapshot []Message) []Message {
	return s.opt.Merge(pending, snapshot)
}

// ListByCourse returns a course's messages, newest first.
func (s *service) ListByCourse(ctx context.Context, courseID string) ([]Message, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id required")
	}
	return s.col.Query(ctx, courseQuery(courseID))
}

// ListBySender returns a sender's messages, newest first.
func (s *service) ListBySender(ctx context.Context, sender string) ([]Message, error) {
	if strings.TrimSpace(sender) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sender required")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Eq("sender", sender).
		OrderBy("timestamp", docstore.Descending))
}

// ListRecent returns the latest messages across all courses.
func (s *service) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be positive")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		OrderBy("timestamp", docstore.Descending).
		Limit(limit))
}

// ListBetween returns messages in the inclusive time range, newest
// first.
func (s *service) ListBetween(ctx context.Context, from, to time.Time) ([]Message, error) {
	if from.After(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range start must not be after range end")
	}
	return s.col.Query(ctx, docstore.NewQuery().
		Gte("timestamp", from.UTC().Format(time.RFC3339Nano)).
		Lte("timestamp", to.UTC().Format(time.RFC3339Nano)).
		OrderBy("timestamp", docstore.Descending))
}

// Stream opens a live subscription over a course's messages, newest
// first. An empty course id streams the campus-wide thread, same as the
// unfiltered listing.
func (s *service) Stream(ctx context.Context, courseID string) (*docstore.Subscription[Message], error) {
	if strings.TrimSpace(courseID) == "" {
		return s.col.Subscribe(ctx, docstore.NewQuery().OrderBy("timestamp", docstore.Descending))
	}
	return s.col.Subscribe(ctx, courseQuery(courseID))
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}

func courseQuery(courseID string) docstore.Query {
	return docstore.NewQuery().
		Eq("courseId", courseID).
		OrderBy("timestamp", docstore.Descending)
}
