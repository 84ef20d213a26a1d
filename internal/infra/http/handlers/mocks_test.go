package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

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

type fakeRenderer struct {
	err error
}

func (f fakeRenderer) Render(w io.Writer, p *entity.Proposal, lead *entity.Lead) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "%PDF-1.3 "+p.Title+" "+lead.Name)
	return err
}

type testServer struct {
	leads     *MockLeadRepository
	proposals *MockProposalRepository
	followUps *MockFollowUpRepository
	clients   *MockClientRepository
	handler   http.Handler
}

func newTestServer(limiter *RateLimiter, renderer ProposalRenderer) *testServer {
	s := &testServer{
		leads:     new(MockLeadRepository),
		proposals: new(MockProposalRepository),
		followUps: new(MockFollowUpRepository),
		clients:   new(MockClientRepository),
	}
	machine := pipeline.NewStateMachine(false)
	getLead := usecase.NewGetLeadUseCase(s.leads)

	router := Router{
		Leads: &LeadHandler{
			CreateUC:     usecase.NewCreateLeadUseCase(s.leads, nil),
			GetUC:        getLead,
			ListUC:       usecase.NewListLeadsUseCase(s.leads),
			UpdateUC:     usecase.NewUpdateLeadUseCase(s.leads),
			DeleteUC:     usecase.NewDeleteLeadUseCase(s.leads, nil),
			TransitionUC: usecase.NewTransitionLeadUseCase(s.leads, machine, nil),
			ConvertUC:    usecase.NewConvertLeadUseCase(s.leads, s.clients, machine, nil),
			ActivityUC:   usecase.NewLeadActivityUseCase(s.leads),
			RateLimiter:  limiter,
		},
		FollowUps: NewFollowUpHandler(
			usecase.NewAppendFollowUpUseCase(s.leads, s.followUps, nil),
			usecase.NewRemoveFollowUpUseCase(s.followUps),
			usecase.NewGetLeadLedgerUseCase(s.leads, s.followUps),
		),
		Proposals: &ProposalHandler{
			CreateUC: usecase.NewCreateProposalUseCase(s.leads, s.proposals),
			GetUC:    usecase.NewGetProposalUseCase(s.proposals),
			ListUC:   usecase.NewListProposalsUseCase(s.leads, s.proposals),
			EditUC:   usecase.NewEditProposalUseCase(s.proposals),
			SendUC:   usecase.NewSendProposalUseCase(s.leads, s.proposals, nil),
			DecideUC: usecase.NewDecideProposalUseCase(s.proposals),
			LeadUC:   getLead,
			Renderer: renderer,
		},
		Pipeline: NewPipelineHandler(
			usecase.NewPipelineOverviewUseCase(s.leads),
			usecase.NewPipelineReportUseCase(s.leads, nil),
		),
		Health: NewHealthHandler(nil, nil, "test"),
	}
	s.handler = router.Handler()
	return s
}

func body(s string) io.Reader {
	return strings.NewReader(s)
}

func sampleLead(id string, status entity.Stage) *entity.Lead {
	return &entity.Lead{
		ID:          id,
		Name:        "Padaria Central",
		OwnerID:     "emp-1",
		Priority:    entity.PriorityMedium,
		Status:      status,
		Value:       1000,
		Probability: 50,
		Notes:       []entity.Note{},
		Tasks:       []entity.Task{},
		Attachments: []entity.Attachment{},
	}
}

func sampleProposal(status entity.ProposalStatus) *entity.Proposal {
	return &entity.Proposal{
		ID:     "p-1",
		LeadID: "lead-1",
		Title:  "Site institucional",
		Items: []entity.ProposalItem{
			{Description: "Layout", Quantity: 2, UnitPrice: 100},
			{Description: "Hospedagem", Quantity: 1, UnitPrice: 50},
		},
		Discount: 30,
		Status:   status,
	}
}
