// Package storage is the complaint store collaborator: PostgreSQL through
// gorm for the records, Redis for the trending leaderboard, the analytics
// cache and the live-feed event channel. Mutating saves use compare-and-set
// on updated_date so concurrent writers cannot silently overwrite each other.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/models"
)

const (
	trendingKey   = "complaints:trending"
	analyticsKey  = "complaints:analytics"
	eventsChannel = "complaints:events"

	listBatchSize = 500
)

// Storage is the narrow store contract the services depend on.
type Storage interface {
	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	// SaveComplaintCAS persists c only if the stored updated_date still
	// equals prevUpdated; otherwise it returns ErrConflict.
	SaveComplaintCAS(c *models.Complaint, prevUpdated time.Time) error
	DeleteComplaint(id string) error
	ListComplaints() ([]models.Complaint, error)
	StreamComplaints(fn func(models.Complaint) bool) error

	CreateComment(comment *models.Comment) error
	GetCommentsForComplaint(complaintID string) ([]models.Comment, error)
	SaveComment(comment *models.Comment) error

	GetUserByID(id string) (*models.User, error)
	SaveUser(user *models.User) error
	ListUsers() ([]models.User, error)

	UpdateTrendingScore(complaintID string, score float64) error
	TopTrending(n int64) ([]string, error)
	RemoveFromTrending(complaintID string) error

	GetCachedAnalytics(key string) (*models.AnalyticsData, error)
	SetCachedAnalytics(key string, data *models.AnalyticsData, ttl time.Duration) error

	PublishEvent(ev models.ComplaintEvent) error
}

// Service implements Storage over gorm and redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService constructs the store. The redis client may be nil for
// tools that only need the database (the admin CLI).
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateComplaint inserts a new complaint. The gorm BeforeCreate hook fills
// the ID when it is empty.
func (s *Service) CreateComplaint(c *models.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to create complaint %q: %v", c.Title, err)
		return err
	}
	return nil
}

// GetComplaintByID loads one complaint, or ErrNotFound.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "complaint %s", id)
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}
	return &c, nil
}

// SaveComplaintCAS writes the full record guarded by the previous
// updated_date. A zero row count means another writer got there first.
func (s *Service) SaveComplaintCAS(c *models.Complaint, prevUpdated time.Time) error {
	result := s.DB.Model(&models.Complaint{}).
		Where("id = ? AND updated_date = ?", c.ID, prevUpdated).
		Select("*").
		Omit("id", "created_date").
		Updates(c)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save complaint %s: %v", c.ID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Wrap(apperrors.ErrConflict, "complaint %s changed since read", c.ID)
	}
	return nil
}

// DeleteComplaint removes the complaint; its comments cascade through the
// foreign-key constraint, and it leaves the trending set.
func (s *Service) DeleteComplaint(id string) error {
	if err := s.DB.Where("id = ?", id).Delete(&models.Complaint{}).Error; err != nil {
		log.Printf("ERROR: Failed to delete complaint %s: %v", id, err)
		return err
	}
	return s.RemoveFromTrending(id)
}

// ListComplaints loads the full snapshot in batches.
func (s *Service) ListComplaints() ([]models.Complaint, error) {
	var all []models.Complaint
	err := s.StreamComplaints(func(c models.Complaint) bool {
		all = append(all, c)
		return true
	})
	return all, err
}

// StreamComplaints feeds complaints to fn in created-date order until fn
// returns false or the table is exhausted.
func (s *Service) StreamComplaints(fn func(models.Complaint) bool) error {
	var batch []models.Complaint
	stopped := false
	err := s.DB.Order("created_date asc").FindInBatches(&batch, listBatchSize, func(tx *gorm.DB, _ int) error {
		for _, c := range batch {
			if !fn(c) {
				stopped = true
				return gorm.ErrRecordNotFound // stop iteration
			}
		}
		return nil
	}).Error
	if err != nil && !(stopped && errors.Is(err, gorm.ErrRecordNotFound)) {
		log.Printf("ERROR: Failed to stream complaints: %v", err)
		return err
	}
	return nil
}

// CreateComment attaches a comment to its complaint.
func (s *Service) CreateComment(comment *models.Comment) error {
	if err := s.DB.Create(comment).Error; err != nil {
		log.Printf("ERROR: Failed to create comment on complaint %s: %v", comment.ComplaintID, err)
		return err
	}
	return nil
}

// GetCommentsForComplaint returns the comments oldest first. A complaint
// without comments yields an empty list, not an error.
func (s *Service) GetCommentsForComplaint(complaintID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.DB.Where("complaint_id = ?", complaintID).Order("created_at asc").Find(&comments).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("ERROR: Failed to get comments for complaint %s: %v", complaintID, err)
		return nil, err
	}
	return comments, nil
}

// SaveComment persists an edited comment.
func (s *Service) SaveComment(comment *models.Comment) error {
	return s.DB.Save(comment).Error
}

// GetUserByID loads one user, or ErrNotFound.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "user %s", id)
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// SaveUser upserts a user record.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// ListUsers loads all users; used by the counter recompute in the admin CLI.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

// UpdateTrendingScore writes the complaint's score into the trending ZSET.
func (s *Service) UpdateTrendingScore(complaintID string, score float64) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.ZAdd(s.Ctx, trendingKey, redis.Z{Score: score, Member: complaintID}).Err()
}

// TopTrending returns the n highest-scored complaint ids.
func (s *Service) TopTrending(n int64) ([]string, error) {
	if s.Redis == nil {
		return nil, nil
	}
	return s.Redis.ZRevRange(s.Ctx, trendingKey, 0, n-1).Result()
}

// RemoveFromTrending drops a complaint from the leaderboard.
func (s *Service) RemoveFromTrending(complaintID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.ZRem(s.Ctx, trendingKey, complaintID).Err()
}

// GetCachedAnalytics returns the cached rollup for key, or nil on a miss.
func (s *Service) GetCachedAnalytics(key string) (*models.AnalyticsData, error) {
	if s.Redis == nil {
		return nil, nil
	}
	payload, err := s.Redis.Get(s.Ctx, analyticsKey+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data models.AnalyticsData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		log.Printf("ERROR: Corrupt analytics cache entry %q: %v", key, err)
		return nil, nil // treat as a miss, the aggregator recomputes
	}
	return &data, nil
}

// SetCachedAnalytics stores a rollup with a TTL.
func (s *Service) SetCachedAnalytics(key string, data *models.AnalyticsData, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Redis.Set(s.Ctx, analyticsKey+":"+key, payload, ttl).Err()
}

// PublishEvent broadcasts a complaint event for the live feed.
func (s *Service) PublishEvent(ev models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, eventsChannel, payload).Err()
}

// SubscribeEvents opens the live-feed subscription for the hub.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, eventsChannel)
}
