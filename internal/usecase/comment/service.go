package comment

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dealhive/dealhive/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

const maxCommentLength = 2000

// linkPattern flags comments that carry URLs; those always go through the
// moderation queue when the author is not trusted.
var linkPattern = regexp.MustCompile(`(?i)(https?://|www\.)`)

// Service is the moderation-gated comment service. It decides whether a
// submission publishes immediately or waits in the queue; callers only see
// the resulting status.
type Service struct {
	commentRepo domain.CommentRepository
	bloomRepo   domain.BloomRepository
	dealCache   domain.DealCache
	policy      *bluemonday.Policy
}

var _ domain.CommentUsecase = (*Service)(nil)

func NewService(commentRepo domain.CommentRepository, bloomRepo domain.BloomRepository, dealCache domain.DealCache) *Service {
	return &Service{
		commentRepo: commentRepo,
		bloomRepo:   bloomRepo,
		dealCache:   dealCache,
		// Comments are plain text; strip all markup.
		policy: bluemonday.StrictPolicy(),
	}
}

func (s *Service) mustExists(ctx context.Context, dealID int64) error {
	exists, err := s.bloomRepo.Exists(ctx, dealID)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says deal %d does not exist", dealID)
		return domain.ErrNotFound
	}

	return nil
}

func (s *Service) sanitize(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// gate decides visible-vs-pending for a submission. Trusted authors and
// admins publish immediately; link-bearing comments and first-time authors
// wait for a moderator. Gate errors fail closed into the queue.
func (s *Service) gate(ctx context.Context, author *domain.User, text string) domain.ModerationStatus {
	if author.IsAdmin() || author.Trusted {
		return domain.StatusVisible
	}
	if linkPattern.MatchString(text) {
		return domain.StatusPending
	}

	count, err := s.commentRepo.CountVisibleByUser(ctx, author.ID)
	if err != nil {
		logrus.Errorf("failed to count comments of user %d: %v", author.ID, err)
		return domain.StatusPending
	}
	if count == 0 {
		return domain.StatusPending
	}
	return domain.StatusVisible
}

func (s *Service) Create(ctx context.Context, dealID int64, author *domain.User, text string) (domain.Comment, domain.ModerationStatus, error) {
	if author == nil || author.ID == 0 {
		return domain.Comment{}, "", domain.ErrForbidden
	}
	if err := s.mustExists(ctx, dealID); err != nil {
		return domain.Comment{}, "", err
	}

	text = s.sanitize(text)
	if text == "" || len(text) > maxCommentLength {
		return domain.Comment{}, "", domain.ErrBadParamInput
	}

	now := time.Now()
	c := domain.Comment{
		DealID:    dealID,
		UserID:    author.ID,
		Text:      text,
		Status:    s.gate(ctx, author, text),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Store(ctx, &c); err != nil {
		return domain.Comment{}, "", err
	}
	c.User = author

	if c.Status == domain.StatusVisible {
		s.invalidateDeal(dealID)
	}
	return c, c.Status, nil
}

func (s *Service) Update(ctx context.Context, commentID int64, actor *domain.User, text string) (domain.ModerationStatus, error) {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return "", err
	}

	// The presentation layer already filters actions by ownership; this is
	// the fail-safe for improper invocation.
	if actor == nil || (actor.ID != c.UserID && !actor.IsAdmin()) {
		return "", domain.ErrForbidden
	}

	text = s.sanitize(text)
	if text == "" || len(text) > maxCommentLength {
		return "", domain.ErrBadParamInput
	}

	status := s.gate(ctx, actor, text)
	if status == domain.StatusVisible {
		c.Text = text
		c.PendingText = ""
	} else {
		// The previously approved text keeps showing until a moderator
		// approves the edit.
		c.PendingText = text
	}
	c.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, c); err != nil {
		return "", err
	}

	if status == domain.StatusVisible {
		s.invalidateDeal(c.DealID)
	}
	return status, nil
}

func (s *Service) Delete(ctx context.Context, commentID int64, actor *domain.User) error {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Already gone; deletion is idempotent.
			return nil
		}
		return err
	}

	if actor == nil || (actor.ID != c.UserID && !actor.IsAdmin()) {
		return domain.ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	s.invalidateDeal(c.DealID)
	return nil
}

func (s *Service) FetchByDeal(ctx context.Context, dealID int64) ([]domain.Comment, error) {
	if err := s.mustExists(ctx, dealID); err != nil {
		return nil, err
	}
	return s.commentRepo.FetchByDeal(ctx, dealID)
}

// Moderate resolves a pending comment or pending edit. Approving promotes
// the queued content; rejecting discards it (a rejected new comment is
// removed entirely).
func (s *Service) Moderate(ctx context.Context, commentID int64, actor *domain.User, approve bool) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	switch {
	case c.Status == domain.StatusPending:
		if !approve {
			return s.commentRepo.Delete(ctx, commentID)
		}
		c.Status = domain.StatusVisible
	case c.PendingText != "":
		if approve {
			c.Text = c.PendingText
		}
		c.PendingText = ""
	default:
		return domain.ErrBadParamInput
	}

	c.UpdatedAt = time.Now()
	if err := s.commentRepo.Update(ctx, c); err != nil {
		return err
	}

	s.invalidateDeal(c.DealID)
	return nil
}

func (s *Service) invalidateDeal(dealID int64) {
	go func(id int64) {
		if err := s.dealCache.DeleteDeal(context.Background(), id); err != nil {
			logrus.Warnf("failed to invalidate deal cache %d: %v", id, err)
		}
	}(dealID)
}
