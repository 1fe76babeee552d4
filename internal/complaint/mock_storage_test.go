package complaint_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"samadhan/backend/internal/ai"
	"samadhan/backend/internal/models"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) SaveComplaintCAS(c *models.Complaint, prevUpdated time.Time) error {
	args := m.Called(c, prevUpdated)
	return args.Error(0)
}

func (m *MockStorage) DeleteComplaint(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) StreamComplaints(fn func(models.Complaint) bool) error {
	args := m.Called(fn)
	return args.Error(0)
}

func (m *MockStorage) CreateComment(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockStorage) GetCommentsForComplaint(complaintID string) ([]models.Comment, error) {
	args := m.Called(complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockStorage) SaveComment(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) ListUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) UpdateTrendingScore(complaintID string, score float64) error {
	args := m.Called(complaintID, score)
	return args.Error(0)
}

func (m *MockStorage) TopTrending(n int64) ([]string, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) RemoveFromTrending(complaintID string) error {
	args := m.Called(complaintID)
	return args.Error(0)
}

func (m *MockStorage) GetCachedAnalytics(key string) (*models.AnalyticsData, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsData), args.Error(1)
}

func (m *MockStorage) SetCachedAnalytics(key string, data *models.AnalyticsData, ttl time.Duration) error {
	args := m.Called(key, data, ttl)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(ev models.ComplaintEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

type MockCategorizer struct {
	mock.Mock
}

func (m *MockCategorizer) Categorize(ctx context.Context, title, description string) (ai.Suggestion, error) {
	args := m.Called(ctx, title, description)
	return args.Get(0).(ai.Suggestion), args.Error(1)
}
