package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

var errDB = errors.New("connection reset by peer")

func TestCreateLeadUseCase(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewCreateLeadUseCase(repo, events)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)
		events.On("PublishPipelineEvent", mock.Anything, mock.MatchedBy(func(e queue.PipelineEvent) bool {
			return e.Type == queue.EventLeadCreated && e.ToStage == "NEW" && e.OccurredAt.Equal(fixedNow)
		})).Return(nil)

		lead, err := uc.Execute(ctx, entity.LeadDraft{Name: "Padaria Central", Phone: "(11) 98765-4321"})

		require.NoError(t, err)
		assert.Equal(t, entity.StageNew, lead.Status)
		assert.Equal(t, fixedNow, lead.CreatedAt)
		repo.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("Invalid Phone", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewCreateLeadUseCase(repo, nil)

		_, err := uc.Execute(ctx, entity.LeadDraft{Name: "Lead", Phone: "123"})

		assert.Equal(t, CodeValidation, ErrorCode(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Probability", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewCreateLeadUseCase(repo, nil)

		_, err := uc.Execute(ctx, entity.LeadDraft{Name: "Lead", Probability: 120})

		assert.True(t, IsDomainError(err))
		assert.Equal(t, CodeValidation, ErrorCode(err))
	})

	t.Run("Store Failure", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewCreateLeadUseCase(repo, events)

		repo.On("Create", mock.Anything, mock.Anything).Return(errDB)

		_, err := uc.Execute(ctx, entity.LeadDraft{Name: "Lead"})

		assert.True(t, IsTechnicalError(err))
		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		assert.ErrorIs(t, err, errDB)
		events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
	})

	t.Run("Publish Failure Does Not Fail", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewCreateLeadUseCase(repo, events)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		events.On("PublishPipelineEvent", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

		lead, err := uc.Execute(ctx, entity.LeadDraft{Name: "Lead"})

		require.NoError(t, err)
		assert.NotNil(t, lead)
	})
}

func TestListLeadsUseCase_ReappliesFilter(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewListLeadsUseCase(repo)

	mine := newLead("1", entity.StageNew)
	other := newLead("2", entity.StageNew)
	other.OwnerID = "emp-2"
	filter := entity.LeadFilter{OwnerID: "emp-1"}
	repo.On("List", mock.Anything, filter).Return([]*entity.Lead{mine, other}, nil)

	leads, err := uc.Execute(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "1", leads[0].ID)
}

func TestGetLeadUseCase_NotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewGetLeadUseCase(repo)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, entity.NewNotFound("lead", "missing"))

	_, err := uc.Execute(context.Background(), "missing")

	assert.Equal(t, CodeNotFound, ErrorCode(err))
}

func TestUpdateLeadUseCase(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()

	t.Run("Keeps Stage", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewUpdateLeadUseCase(repo)
		current := newLead("1", entity.StageNegotiation)
		repo.On("FindByID", mock.Anything, "1").Return(current, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := uc.Execute(ctx, "1", entity.LeadDraft{Name: "Novo Nome", Value: 9000, Probability: 80})

		require.NoError(t, err)
		assert.Equal(t, "Novo Nome", updated.Name)
		assert.Equal(t, entity.StageNegotiation, updated.Status)
		assert.Equal(t, fixedNow, updated.UpdatedAt)
	})

	t.Run("Store Failure Leaves Original Intact", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewUpdateLeadUseCase(repo)
		current := newLead("1", entity.StageNew)
		repo.On("FindByID", mock.Anything, "1").Return(current, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(errDB)

		_, err := uc.Execute(ctx, "1", entity.LeadDraft{Name: "Outro"})

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		assert.Equal(t, "Padaria Central", current.Name)
	})

	t.Run("Validation Error", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewUpdateLeadUseCase(repo)
		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)

		_, err := uc.Execute(ctx, "1", entity.LeadDraft{Name: ""})

		assert.Equal(t, CodeValidation, ErrorCode(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTransitionLeadUseCase(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()

	t.Run("Publishes Stage Change", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewTransitionLeadUseCase(repo, pipeline.NewStateMachine(false), events)

		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
			return l.Status == entity.StageContacted
		})).Return(nil)
		events.On("PublishPipelineEvent", mock.Anything, mock.MatchedBy(func(e queue.PipelineEvent) bool {
			return e.Type == queue.EventLeadStageChanged && e.FromStage == "NEW" && e.ToStage == "CONTACTED"
		})).Return(nil)

		out, err := uc.Execute(ctx, TransitionLeadInput{LeadID: "1", Status: "contacted"})

		require.NoError(t, err)
		assert.Equal(t, entity.StageContacted, out.Lead.Status)
		assert.True(t, out.Change.Changed())
		events.AssertExpectations(t)
	})

	t.Run("Same Stage Does Not Publish", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewTransitionLeadUseCase(repo, pipeline.NewStateMachine(false), events)

		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		out, err := uc.Execute(ctx, TransitionLeadInput{LeadID: "1", Status: entity.StageNew})

		require.NoError(t, err)
		assert.False(t, out.Change.Changed())
		events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure", func(t *testing.T) {
		repo := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewTransitionLeadUseCase(repo, pipeline.NewStateMachine(false), events)

		current := newLead("1", entity.StageNew)
		repo.On("FindByID", mock.Anything, "1").Return(current, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(errDB)

		_, err := uc.Execute(ctx, TransitionLeadInput{LeadID: "1", Status: entity.StageWon})

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		assert.Equal(t, entity.StageNew, current.Status)
		events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
	})

	t.Run("Strict Mode Rejects Skip", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewTransitionLeadUseCase(repo, pipeline.NewStateMachine(true), nil)
		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)

		_, err := uc.Execute(ctx, TransitionLeadInput{LeadID: "1", Status: entity.StageWon})

		assert.Equal(t, CodeInvalidTransition, ErrorCode(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Converted Lead", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewTransitionLeadUseCase(repo, pipeline.NewStateMachine(false), nil)
		converted := newLead("1", entity.StageWon)
		converted.ConvertedToClientID = "client-1"
		repo.On("FindByID", mock.Anything, "1").Return(converted, nil)

		_, err := uc.Execute(ctx, TransitionLeadInput{LeadID: "1", Status: entity.StageLost})

		assert.Equal(t, CodeAlreadyConverted, ErrorCode(err))
	})
}

func TestConvertLeadUseCase(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		events := new(MockEventPublisher)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), events)

		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNegotiation), nil)
		clients.On("Create", mock.Anything, mock.AnythingOfType("*entity.Client")).Return(nil)
		leads.On("Update", mock.Anything, mock.Anything).Return(nil)
		events.On("PublishPipelineEvent", mock.Anything, eventOfType(queue.EventLeadConverted)).Return(nil)
		events.On("PublishPipelineEvent", mock.Anything, eventOfType(queue.EventLeadStageChanged)).Return(nil)

		out, err := uc.Execute(ctx, ConvertLeadInput{
			LeadID: "1",
			Client: entity.Client{Document: "123.456.789-09", Phone: "11987654321"},
		})

		require.NoError(t, err)
		assert.Equal(t, entity.StageWon, out.Lead.Status)
		assert.Equal(t, out.Client.ID, out.Lead.ConvertedToClientID)
		assert.Equal(t, "Padaria Central", out.Client.Name)
		assert.Equal(t, fixedNow, *out.Lead.ConvertedAt)
		events.AssertExpectations(t)
	})

	t.Run("Lead Update Fails Compensates Client", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		events := new(MockEventPublisher)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), events)

		current := newLead("1", entity.StageWon)
		var createdID string
		leads.On("FindByID", mock.Anything, "1").Return(current, nil)
		clients.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			createdID = args.Get(1).(*entity.Client).ID
		}).Return(nil)
		leads.On("Update", mock.Anything, mock.Anything).Return(errDB)
		clients.On("Delete", mock.Anything, mock.Anything).Return(nil)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		assert.ErrorIs(t, err, errDB)
		clients.AssertCalled(t, "Delete", mock.Anything, createdID)
		assert.False(t, current.IsConverted())
		events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
	})

	t.Run("Client Create Fails", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), nil)

		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageWon), nil)
		clients.On("Create", mock.Anything, mock.Anything).Return(errDB)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent Conversion Hits Unique Client", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), nil)

		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageWon), nil)
		clients.On("Create", mock.Anything, mock.Anything).Return(entity.ErrAlreadyConverted)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeAlreadyConverted, ErrorCode(err))
		leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Strict Mode Rejects Skipping Stages", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(true), nil)
		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeInvalidTransition, ErrorCode(err))
		clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Already Converted", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), nil)

		converted := newLead("1", entity.StageWon)
		converted.ConvertedToClientID = "client-1"
		leads.On("FindByID", mock.Anything, "1").Return(converted, nil)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeAlreadyConverted, ErrorCode(err))
		clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Lost Lead", func(t *testing.T) {
		leads := new(MockLeadRepository)
		clients := new(MockClientRepository)
		uc := NewConvertLeadUseCase(leads, clients, pipeline.NewStateMachine(false), nil)
		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageLost), nil)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1"})

		assert.Equal(t, CodeValidation, ErrorCode(err))
		clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Document", func(t *testing.T) {
		leads := new(MockLeadRepository)
		uc := NewConvertLeadUseCase(leads, new(MockClientRepository), pipeline.NewStateMachine(false), nil)

		_, err := uc.Execute(ctx, ConvertLeadInput{LeadID: "1", Client: entity.Client{Document: "111.111.111-11"}})

		assert.Equal(t, CodeValidation, ErrorCode(err))
		leads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestDeleteLeadUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		leads := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewDeleteLeadUseCase(leads, events)

		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)
		leads.On("Delete", mock.Anything, "1").Return(nil).Once()
		events.On("PublishPipelineEvent", mock.Anything, eventOfType(queue.EventLeadDeleted)).Return(nil)

		require.NoError(t, uc.Execute(ctx, "1"))

		leads.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("Store Failure Publishes Nothing", func(t *testing.T) {
		leads := new(MockLeadRepository)
		events := new(MockEventPublisher)
		uc := NewDeleteLeadUseCase(leads, events)

		leads.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)
		leads.On("Delete", mock.Anything, "1").Return(fmt.Errorf("delete proposals: %w", errDB))

		err := uc.Execute(ctx, "1")

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
		assert.ErrorIs(t, err, errDB)
		events.AssertNotCalled(t, "PublishPipelineEvent", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		leads := new(MockLeadRepository)
		uc := NewDeleteLeadUseCase(leads, nil)
		leads.On("FindByID", mock.Anything, "x").Return(nil, entity.NewNotFound("lead", "x"))

		err := uc.Execute(ctx, "x")

		assert.Equal(t, CodeNotFound, ErrorCode(err))
		leads.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestLeadActivityUseCase(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()

	t.Run("Add Note", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewLeadActivityUseCase(repo)
		current := newLead("1", entity.StageNew)
		repo.On("FindByID", mock.Anything, "1").Return(current, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool { return len(l.Notes) == 1 })).Return(nil)

		note, err := uc.AddNote(ctx, AddNoteInput{LeadID: "1", Content: "pediu orçamento", AuthorID: "emp-1"})

		require.NoError(t, err)
		assert.Equal(t, "pediu orçamento", note.Content)
		assert.Equal(t, fixedNow, note.CreatedAt)
		assert.Empty(t, current.Notes)
	})

	t.Run("Complete Missing Task", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewLeadActivityUseCase(repo)
		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)

		_, err := uc.CompleteTask(ctx, "1", "nope")

		assert.Equal(t, CodeNotFound, ErrorCode(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Add Task Then Complete", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewLeadActivityUseCase(repo)
		withTask := newLead("1", entity.StageNew)
		withTask.Tasks = []entity.Task{{ID: "task-1", Title: "Ligar", CreatedAt: fixedNow}}
		repo.On("FindByID", mock.Anything, "1").Return(withTask, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		lead, err := uc.CompleteTask(ctx, "1", "task-1")

		require.NoError(t, err)
		assert.True(t, lead.Tasks[0].Completed)
		assert.False(t, withTask.Tasks[0].Completed)
	})

	t.Run("Attachment Store Failure", func(t *testing.T) {
		repo := new(MockLeadRepository)
		uc := NewLeadActivityUseCase(repo)
		repo.On("FindByID", mock.Anything, "1").Return(newLead("1", entity.StageNew), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(errDB)

		_, err := uc.AddAttachment(ctx, "1", entity.Attachment{FileName: "a.pdf", URL: "https://files/a.pdf"})

		assert.Equal(t, CodeStoreFailure, ErrorCode(err))
	})
}
