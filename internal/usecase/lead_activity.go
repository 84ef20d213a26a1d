package usecase

import (
	"context"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// LeadActivityUseCase agrupa as coleções que vivem dentro do lead:
// notas, tarefas e anexos.
type LeadActivityUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadActivityUseCase(repo entity.LeadRepositoryInterface) *LeadActivityUseCase {
	return &LeadActivityUseCase{Repo: repo}
}

func (uc *LeadActivityUseCase) AddNote(ctx context.Context, input AddNoteInput) (*entity.Note, error) {
	var note entity.Note
	err := uc.mutate(ctx, input.LeadID, "add note", func(l *entity.Lead) error {
		n, err := l.AddNote(input.Content, input.AuthorID, now())
		if err != nil {
			return err
		}
		note = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (uc *LeadActivityUseCase) AddTask(ctx context.Context, input AddTaskInput) (*entity.Task, error) {
	var task entity.Task
	err := uc.mutate(ctx, input.LeadID, "add task", func(l *entity.Lead) error {
		t, err := l.AddTask(input.Title, input.DueDate, now())
		if err != nil {
			return err
		}
		task = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (uc *LeadActivityUseCase) CompleteTask(ctx context.Context, leadID, taskID string) (*entity.Lead, error) {
	var out *entity.Lead
	err := uc.mutate(ctx, leadID, "complete task", func(l *entity.Lead) error {
		if err := l.CompleteTask(taskID, now()); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *LeadActivityUseCase) AddAttachment(ctx context.Context, leadID string, a entity.Attachment) (*entity.Attachment, error) {
	var att entity.Attachment
	err := uc.mutate(ctx, leadID, "add attachment", func(l *entity.Lead) error {
		created, err := l.AddAttachment(a, now())
		if err != nil {
			return err
		}
		att = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (uc *LeadActivityUseCase) mutate(ctx context.Context, leadID, op string, fn func(*entity.Lead) error) error {
	current, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return fail("find lead", err)
	}

	updated := current.Clone()
	if err := fn(updated); err != nil {
		return fail(op, err)
	}

	if err := uc.Repo.Update(ctx, updated); err != nil {
		return fail(op, err)
	}
	return nil
}
