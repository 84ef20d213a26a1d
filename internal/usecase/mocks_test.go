package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
)

var fixedNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

// freezeTime fixa o relógio dos use cases durante o teste.
func freezeTime(t *testing.T) {
	t.Helper()
	original := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = original })
}

// MockLeadRepository - Mock para LeadRepositoryInterface
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockFollowUpRepository - Mock para FollowUpRepositoryInterface
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Create(ctx context.Context, f *entity.FollowUp) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFollowUpRepository) FindByID(ctx context.Context, id string) (*entity.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) ListDue(ctx context.Context, from, to time.Time) ([]*entity.FollowUp, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockProposalRepository - Mock para ProposalRepositoryInterface
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) Create(ctx context.Context, p *entity.Proposal) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Update(ctx context.Context, p *entity.Proposal) error {
	return m.Called(ctx, p).Error(0)
}

// MockClientRepository - Mock para ClientRepositoryInterface
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockEmployeeDirectory - Mock para EmployeeDirectory
type MockEmployeeDirectory struct {
	mock.Mock
}

func (m *MockEmployeeDirectory) FindByID(ctx context.Context, id string) (*entity.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

// MockEventPublisher - Mock para EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPipelineEvent(ctx context.Context, event queue.PipelineEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockEmailService - Mock para EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadWon(to, ownerName, leadName string, value float64) error {
	return m.Called(to, ownerName, leadName, value).Error(0)
}

func (m *MockEmailService) SendProposalSent(to, ownerName, leadName, proposalTitle string, total float64) error {
	return m.Called(to, ownerName, leadName, proposalTitle, total).Error(0)
}

func (m *MockEmailService) SendFollowUpDue(to, ownerName, leadName, followUpType string, scheduledAt time.Time) error {
	return m.Called(to, ownerName, leadName, followUpType, scheduledAt).Error(0)
}

func eventOfType(eventType queue.EventType) interface{} {
	return mock.MatchedBy(func(e queue.PipelineEvent) bool { return e.Type == eventType })
}

func newLead(id string, status entity.Stage) *entity.Lead {
	return &entity.Lead{
		ID:          id,
		Name:        "Padaria Central",
		Email:       "contato@padaria.com",
		OwnerID:     "emp-1",
		Priority:    entity.PriorityMedium,
		Status:      status,
		Value:       1500,
		Probability: 40,
		Notes:       []entity.Note{},
		Tasks:       []entity.Task{},
		Attachments: []entity.Attachment{},
		CreatedAt:   fixedNow.Add(-24 * time.Hour),
		UpdatedAt:   fixedNow.Add(-24 * time.Hour),
	}
}
