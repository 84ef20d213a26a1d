package entity

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageNew         Stage = "NEW"
	StageContacted   Stage = "CONTACTED"
	StageNegotiation Stage = "NEGOTIATION"
	StageWon         Stage = "WON"
	StageLost        Stage = "LOST"
)

// Stages na ordem do funil. A posição é o índice linear usado na conversão cumulativa.
var Stages = []Stage{StageNew, StageContacted, StageNegotiation, StageWon, StageLost}

func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Index retorna -1 para estágio desconhecido.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Attachment guarda só os metadados; o arquivo fica no storage externo.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Lead struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Company             string       `json:"company"`
	Email               string       `json:"email,omitempty"`
	Phone               string       `json:"phone,omitempty"`
	Source              string       `json:"source,omitempty"`
	Priority            Priority     `json:"priority"`
	Status              Stage        `json:"status"`
	OwnerID             string       `json:"owner_id,omitempty"`
	ProjectType         string       `json:"project_type,omitempty"`
	Value               float64      `json:"value"`
	Probability         int          `json:"probability"`
	ExpectedCloseDate   *time.Time   `json:"expected_close_date,omitempty"`
	ConvertedToClientID string       `json:"converted_to_client_id,omitempty"`
	ConvertedAt         *time.Time   `json:"converted_at,omitempty"`
	Notes               []Note       `json:"notes"`
	Tasks               []Task       `json:"tasks"`
	Attachments         []Attachment `json:"attachments"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// LeadDraft contém os campos editáveis pelo time de vendas.
type LeadDraft struct {
	Name              string     `json:"name"`
	Company           string     `json:"company"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Source            string     `json:"source"`
	Priority          Priority   `json:"priority"`
	OwnerID           string     `json:"owner_id"`
	ProjectType       string     `json:"project_type"`
	Value             float64    `json:"value"`
	Probability       int        `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
}

// NewLead cria um lead no estágio inicial.
func NewLead(draft LeadDraft, now time.Time) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		Status:      StageNew,
		Notes:       []Note{},
		Tasks:       []Task{},
		Attachments: []Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lead.Apply(draft)

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

// Apply copia os campos do draft. Status, conversão e coleções não são tocados.
func (l *Lead) Apply(draft LeadDraft) {
	l.Name = strings.TrimSpace(draft.Name)
	l.Company = strings.TrimSpace(draft.Company)
	l.Email = strings.TrimSpace(draft.Email)
	l.Phone = strings.TrimSpace(draft.Phone)
	l.Source = draft.Source
	l.Priority = draft.Priority
	if l.Priority == "" {
		l.Priority = PriorityMedium
	}
	l.OwnerID = draft.OwnerID
	l.ProjectType = draft.ProjectType
	l.Value = draft.Value
	l.Probability = draft.Probability
	l.ExpectedCloseDate = draft.ExpectedCloseDate
}

func (l *Lead) Validate() error {
	var errs ValidationErrors

	if l.Name == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len(l.Name) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}
	if l.Email != "" {
		if _, err := mail.ParseAddress(l.Email); err != nil {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}
	if !l.Priority.IsValid() {
		errs = append(errs, ValidationError{"priority", "must be LOW, MEDIUM or HIGH"})
	}
	if !l.Status.IsValid() {
		errs = append(errs, ValidationError{"status", "is not a pipeline stage"})
	}
	if l.Value < 0 {
		errs = append(errs, ValidationError{"value", "must not be negative"})
	} else if !wholeCents(l.Value) {
		errs = append(errs, ValidationError{"value", "must have at most 2 decimal places"})
	}
	if l.Probability < 0 || l.Probability > 100 {
		errs = append(errs, ValidationError{"probability", "must be between 0 and 100"})
	}

	return errs.OrNil()
}

func (l *Lead) IsConverted() bool {
	return l.ConvertedToClientID != ""
}

func (l *Lead) AddNote(content, authorID string, now time.Time) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	l.Notes = append(l.Notes, Note{
		ID:        uuid.New().String(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
	})
	l.UpdatedAt = now
	return &l.Notes[len(l.Notes)-1], nil
}

func (l *Lead) AddTask(title string, dueDate *time.Time, now time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	l.Tasks = append(l.Tasks, Task{
		ID:        uuid.New().String(),
		Title:     title,
		DueDate:   dueDate,
		CreatedAt: now,
	})
	l.UpdatedAt = now
	return &l.Tasks[len(l.Tasks)-1], nil
}

func (l *Lead) CompleteTask(taskID string, now time.Time) error {
	for i := range l.Tasks {
		if l.Tasks[i].ID != taskID {
			continue
		}
		if !l.Tasks[i].Completed {
			l.Tasks[i].Completed = true
			l.Tasks[i].CompletedAt = &now
			l.UpdatedAt = now
		}
		return nil
	}
	return NewNotFound("task", taskID)
}

func (l *Lead) AddAttachment(a Attachment, now time.Time) (*Attachment, error) {
	var errs ValidationErrors
	if strings.TrimSpace(a.FileName) == "" {
		errs = append(errs, ValidationError{"file_name", "is required"})
	}
	if strings.TrimSpace(a.URL) == "" {
		errs = append(errs, ValidationError{"url", "is required"})
	}
	if a.SizeBytes < 0 {
		errs = append(errs, ValidationError{"size_bytes", "must not be negative"})
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	a.ID = uuid.New().String()
	a.UploadedAt = now
	l.Attachments = append(l.Attachments, a)
	l.UpdatedAt = now
	return &l.Attachments[len(l.Attachments)-1], nil
}

// Clone devolve uma cópia independente; os use cases mutam a cópia e só
// trocam pelo original depois que o store confirmou.
func (l *Lead) Clone() *Lead {
	c := *l
	c.Notes = append([]Note(nil), l.Notes...)
	c.Tasks = append([]Task(nil), l.Tasks...)
	c.Attachments = append([]Attachment(nil), l.Attachments...)
	if l.ExpectedCloseDate != nil {
		d := *l.ExpectedCloseDate
		c.ExpectedCloseDate = &d
	}
	if l.ConvertedAt != nil {
		d := *l.ConvertedAt
		c.ConvertedAt = &d
	}
	return &c
}

// LeadFilter é a configuração explícita de filtros da tela de pipeline.
// Campo vazio significa "sem filtro".
type LeadFilter struct {
	OwnerID     string   `json:"owner_id,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	ProjectType string   `json:"project_type,omitempty"`
	Status      Stage    `json:"status,omitempty"`
	Search      string   `json:"search,omitempty"`
}

func (f LeadFilter) IsEmpty() bool {
	return f == LeadFilter{}
}

func (f LeadFilter) Match(l *Lead) bool {
	if l == nil {
		return false
	}
	if f.OwnerID != "" && l.OwnerID != f.OwnerID {
		return false
	}
	if f.Priority != "" && l.Priority != f.Priority {
		return false
	}
	if f.ProjectType != "" && !strings.EqualFold(l.ProjectType, f.ProjectType) {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(l.Name), term) &&
			!strings.Contains(strings.ToLower(l.Company), term) &&
			!strings.Contains(strings.ToLower(l.Email), term) {
			return false
		}
	}
	return true
}

type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, lead *Lead) error
	// Delete remove o lead junto com seus follow-ups e propostas, atomicamente.
	Delete(ctx context.Context, id string) error
}
