// Package complaint provides the core business logic of the portal: filing,
// upvoting, lifecycle moves, assignment, listing and analytics. Every
// mutation runs under a per-complaint lock and a compare-and-set save, so
// concurrent upvotes or competing status changes cannot lose updates.
package complaint

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"samadhan/backend/internal/ai"
	"samadhan/backend/internal/analytics"
	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/lifecycle"
	"samadhan/backend/internal/models"
	"samadhan/backend/internal/query"
	"samadhan/backend/internal/scoring"
	"samadhan/backend/internal/storage"
)

// casRetries bounds how often a mutation re-reads after losing a
// compare-and-set race.
const casRetries = 3

// Service handles the business logic for complaints.
type Service struct {
	Storage     storage.Storage
	Categorizer ai.Categorizer
	Policy      config.AICategoryPolicy

	// Now is the clock; tests pin it.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, categorizer ai.Categorizer, policy config.AICategoryPolicy) *Service {
	if policy == "" {
		policy = config.DefaultAICategoryPolicy
	}
	return &Service{
		Storage:     s,
		Categorizer: categorizer,
		Policy:      policy,
		Now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations of one complaint.
func (s *Service) lockFor(complaintID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[complaintID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[complaintID] = m
	}
	return m
}

// CreateInput carries the caller-provided fields of a new complaint.
type CreateInput struct {
	Title       string
	Description string
	Category    models.Category
	Severity    models.Severity
	Location    models.Location
	ImageURL    string
	ImageURLs   []string
	Tags        []string
}

// Create files a new complaint for actor. The AI collaborator is consulted
// once; a high-confidence suggestion may set the category per the configured
// policy, a low-confidence one is stored as a hint only. The complaint starts
// pending and is auto-routed to the department that handles its category.
func (s *Service) Create(ctx context.Context, in CreateInput, actor *models.User) (*models.Complaint, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if !actor.HasPermission(models.PermCreateComplaint) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "user %s may not create complaints", actor.ID)
	}
	if !actor.IsEmailVerified {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "email not verified")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "title and description are required")
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if _, ok := config.GetCategoryConfig(in.Category); !ok {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "unknown category %q", in.Category)
	}
	if in.Severity == "" {
		in.Severity = models.SeverityModerate
	}
	if _, ok := config.GetSeverityConfig(in.Severity); !ok {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "unknown severity %q", in.Severity)
	}
	if len(in.ImageURLs) > config.MaxImagesPerComplaint {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "at most %d images per complaint", config.MaxImagesPerComplaint)
	}

	now := s.Now()
	c := &models.Complaint{
		UserID:      actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Severity:    in.Severity,
		Priority:    models.PriorityLow,
		Status:      models.StatusPending,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		ImageURLs:   in.ImageURLs,
		Tags:        in.Tags,
		CreatedDate: now,
		UpdatedDate: now,
	}

	if s.Categorizer != nil {
		suggestion, err := s.Categorizer.Categorize(ctx, in.Title, in.Description)
		if err != nil {
			// The collaborator being down does not block filing.
			log.Printf("ERROR: AI categorization failed: %v", err)
		} else if suggestion.Category != "" {
			c.AIDetectedCategory = suggestion.Category
			c.AIConfidence = suggestion.Confidence
			c.Category = scoring.ResolveCategory(in.Category, suggestion.Category, suggestion.Confidence, s.Policy)
		}
	}

	if dept, ok := config.DepartmentForCategory(c.Category); ok {
		c.AssignedDepartment = dept
	}

	if err := s.Storage.CreateComplaint(c); err != nil {
		return nil, err
	}

	s.publish(models.ComplaintEvent{
		Type:        "created",
		ComplaintID: c.ID,
		Category:    c.Category,
		Status:      c.Status,
		ActorID:     actor.ID,
		OccurredAt:  now,
	})
	return c, nil
}

// Get returns one complaint by id.
func (s *Service) Get(id string) (*models.Complaint, error) {
	return s.Storage.GetComplaintByID(id)
}

// Upvote records one upvote from actor. A second upvote from the same user
// fails with ErrAlreadyUpvoted; there is deliberately no un-upvote. The
// read-modify-write runs under the per-complaint lock and retries on a
// compare-and-set miss.
func (s *Service) Upvote(id string, actor *models.User) (*models.Complaint, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}

	var updated *models.Complaint
	err := s.mutate(id, func(c *models.Complaint) error {
		if err := scoring.ApplyUpvote(c, actor.ID, s.Now()); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	score := scoring.TrendingScore(updated.Upvotes, updated.CreatedDate, s.Now())
	if err := s.Storage.UpdateTrendingScore(updated.ID, score); err != nil {
		log.Printf("ERROR: Failed to update trending score for %s: %v", updated.ID, err)
	}
	s.publish(models.ComplaintEvent{
		Type:        "upvoted",
		ComplaintID: updated.ID,
		Upvotes:     updated.Upvotes,
		ActorID:     actor.ID,
		OccurredAt:  s.Now(),
	})
	return updated, nil
}

// StatusUpdate carries the optional fields an official may set alongside a
// transition.
type StatusUpdate struct {
	NewStatus             models.Status
	OfficialNotes         string
	ResolutionDescription string
}

// UpdateStatus moves a complaint through the lifecycle on behalf of actor.
func (s *Service) UpdateStatus(id string, upd StatusUpdate, actor *models.User) (*models.Complaint, error) {
	var updated *models.Complaint
	err := s.mutate(id, func(c *models.Complaint) error {
		if err := lifecycle.Transition(c, upd.NewStatus, actor, s.Now()); err != nil {
			return err
		}
		if upd.OfficialNotes != "" {
			c.OfficialNotes = upd.OfficialNotes
		}
		if upd.NewStatus == models.StatusResolved && upd.ResolutionDescription != "" {
			c.ResolutionDescription = upd.ResolutionDescription
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status.IsTerminal() {
		if err := s.Storage.RemoveFromTrending(updated.ID); err != nil {
			log.Printf("ERROR: Failed to drop %s from trending: %v", updated.ID, err)
		}
	}
	s.publish(models.ComplaintEvent{
		Type:        "status-changed",
		ComplaintID: updated.ID,
		Status:      updated.Status,
		ActorID:     actor.ID,
		OccurredAt:  s.Now(),
	})
	return updated, nil
}

// Assign routes a complaint to a department and optionally an officer. It
// does not change the status; callers usually transition to in-progress next.
func (s *Service) Assign(id string, dept models.Department, officerID string, actor *models.User) (*models.Complaint, error) {
	var updated *models.Complaint
	err := s.mutate(id, func(c *models.Complaint) error {
		if err := lifecycle.Assign(c, dept, officerID, actor, s.Now()); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.ComplaintEvent{
		Type:        "assigned",
		ComplaintID: updated.ID,
		ActorID:     actor.ID,
		OccurredAt:  s.Now(),
	})
	return updated, nil
}

// Flag marks a complaint for moderator review.
func (s *Service) Flag(id, reason string, actor *models.User) (*models.Complaint, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if !actor.HasPermission(models.PermModerateContent) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "user %s may not flag complaints", actor.ID)
	}

	var updated *models.Complaint
	err := s.mutate(id, func(c *models.Complaint) error {
		c.IsFlagged = true
		c.FlagReason = reason
		c.UpdatedDate = s.Now()
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.ComplaintEvent{
		Type:        "flagged",
		ComplaintID: updated.ID,
		ActorID:     actor.ID,
		OccurredAt:  s.Now(),
	})
	return updated, nil
}

// Delete removes a complaint together with its comments and upvotes.
func (s *Service) Delete(id string, actor *models.User) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if !actor.HasPermission(models.PermDeleteComplaint) {
		return apperrors.Wrap(apperrors.ErrForbidden, "user %s may not delete complaints", actor.ID)
	}
	if _, err := s.Storage.GetComplaintByID(id); err != nil {
		return err
	}
	return s.Storage.DeleteComplaint(id)
}

// mutate runs fn on a fresh copy of the complaint under its lock and saves
// with compare-and-set, retrying a bounded number of times when another
// writer interleaves.
func (s *Service) mutate(id string, fn func(*models.Complaint) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		c, err := s.Storage.GetComplaintByID(id)
		if err != nil {
			return err
		}
		prev := c.UpdatedDate
		if err := fn(c); err != nil {
			return err
		}
		err = s.Storage.SaveComplaintCAS(c, prev)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// List runs the filter engine over the current store snapshot.
func (s *Service) List(filters models.ComplaintFilters, sortOpts models.SortOptions, page, limit int) (models.PaginatedResponse[models.Complaint], error) {
	var empty models.PaginatedResponse[models.Complaint]
	// Reject malformed requests before touching the store.
	if err := query.Validate(filters, sortOpts); err != nil {
		return empty, err
	}
	all, err := s.Storage.ListComplaints()
	if err != nil {
		return empty, err
	}
	return query.Apply(all, filters, sortOpts, page, limit)
}

// Nearby lists complaints within radiusKm of a point, nearest first. The
// distance computed for the radius predicate is reused as the sort key.
func (s *Service) Nearby(lat, lon, radiusKm float64, page, limit int) (models.PaginatedResponse[models.Complaint], error) {
	if radiusKm == 0 {
		radiusKm = config.DefaultNearbyRadiusKm
	}
	filters := models.ComplaintFilters{
		Location: &models.GeoFilter{Latitude: lat, Longitude: lon, RadiusKm: radiusKm},
	}
	sortOpts := models.SortOptions{Field: models.SortByDistance, Order: models.OrderAsc}
	return s.List(filters, sortOpts, page, limit)
}

// Trending returns the highest-ranked complaints by decayed upvotes. The
// redis leaderboard serves the ids when available; otherwise the scores are
// recomputed from the snapshot and the leaderboard is refreshed.
func (s *Service) Trending(limit int) ([]models.Complaint, error) {
	if limit <= 0 || limit > config.MaxPageSize {
		limit = config.DefaultPageSize
	}

	ids, err := s.Storage.TopTrending(int64(limit))
	if err != nil {
		log.Printf("ERROR: Trending leaderboard unavailable, recomputing: %v", err)
	}
	if len(ids) > 0 {
		out := make([]models.Complaint, 0, len(ids))
		for _, id := range ids {
			c, err := s.Storage.GetComplaintByID(id)
			if err != nil {
				// Stale leaderboard entry; skip it rather than fail the feed.
				continue
			}
			out = append(out, *c)
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	all, err := s.Storage.ListComplaints()
	if err != nil {
		return nil, err
	}
	now := s.Now()
	type scored struct {
		c     models.Complaint
		score float64
	}
	ranked := make([]scored, 0, len(all))
	for _, c := range all {
		if c.Status.IsTerminal() {
			continue
		}
		sc := scoring.TrendingScore(c.Upvotes, c.CreatedDate, now)
		if sc <= 0 {
			continue
		}
		if err := s.Storage.UpdateTrendingScore(c.ID, sc); err != nil {
			log.Printf("ERROR: Failed to refresh trending score for %s: %v", c.ID, err)
		}
		ranked = append(ranked, scored{c, sc})
	}
	// Highest score first, createdDate as the deterministic tiebreak.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].c.CreatedDate.Before(ranked[j].c.CreatedDate)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Complaint, len(ranked))
	for i, r := range ranked {
		out[i] = r.c
	}
	return out, nil
}

// Analytics returns the dashboard rollup, cached for a few minutes.
func (s *Service) Analytics(dateRange *models.DateRange, actor *models.User) (*models.AnalyticsData, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if !actor.HasPermission(models.PermViewAnalytics) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "user %s may not view analytics", actor.ID)
	}

	key := cacheKey(dateRange)
	if cached, err := s.Storage.GetCachedAnalytics(key); err == nil && cached != nil {
		return cached, nil
	}

	all, err := s.Storage.ListComplaints()
	if err != nil {
		return nil, err
	}
	data := analytics.Aggregate(all, dateRange)
	if err := s.Storage.SetCachedAnalytics(key, &data, config.CacheMedium); err != nil {
		log.Printf("ERROR: Failed to cache analytics: %v", err)
	}
	return &data, nil
}

// AddComment attaches a comment to a complaint. Comments by officers and
// admins carry the official flag.
func (s *Service) AddComment(complaintID, content string, actor *models.User) (*models.Comment, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "comment content is required")
	}
	if _, err := s.Storage.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ComplaintID: complaintID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		Content:     content,
		IsOfficial:  actor.IsOfficial(),
		CreatedAt:   s.Now(),
	}
	if err := s.Storage.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// EditComment replaces the text of an existing comment and stamps editedAt.
// Authors may edit their own comments; moderators may edit any.
func (s *Service) EditComment(complaintID, commentID, content string, actor *models.User) (*models.Comment, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "comment content is required")
	}

	comments, err := s.Storage.GetCommentsForComplaint(complaintID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID != commentID {
			continue
		}
		if comments[i].UserID != actor.ID && !actor.HasPermission(models.PermModerateContent) {
			return nil, apperrors.Wrap(apperrors.ErrForbidden, "user %s may not edit comment %s", actor.ID, commentID)
		}
		now := s.Now()
		comments[i].Content = content
		comments[i].EditedAt = &now
		if err := s.Storage.SaveComment(&comments[i]); err != nil {
			return nil, err
		}
		return &comments[i], nil
	}
	return nil, apperrors.Wrap(apperrors.ErrNotFound, "comment %s on complaint %s", commentID, complaintID)
}

// Comments lists a complaint's comments oldest first.
func (s *Service) Comments(complaintID string) ([]models.Comment, error) {
	if _, err := s.Storage.GetComplaintByID(complaintID); err != nil {
		return nil, err
	}
	return s.Storage.GetCommentsForComplaint(complaintID)
}

func (s *Service) publish(ev models.ComplaintEvent) {
	if err := s.Storage.PublishEvent(ev); err != nil {
		log.Printf("ERROR: Failed to publish %s event for %s: %v", ev.Type, ev.ComplaintID, err)
	}
}

func requireActive(actor *models.User) error {
	if actor == nil {
		return apperrors.Wrap(apperrors.ErrForbidden, "no acting user")
	}
	if !actor.IsActive {
		return apperrors.Wrap(apperrors.ErrForbidden, "acting user is not active")
	}
	return nil
}

func cacheKey(r *models.DateRange) string {
	if r == nil {
		return "all"
	}
	return r.From.UTC().Format("20060102") + "-" + r.To.UTC().Format("20060102")
}
