package usecase

import (
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
)

type TransitionLeadInput struct {
	LeadID string       `json:"-"`
	Status entity.Stage `json:"status"`
}

type TransitionLeadOutput struct {
	Lead   *entity.Lead         `json:"lead"`
	Change pipeline.StageChange `json:"change"`
}

type ConvertLeadInput struct {
	LeadID string        `json:"-"`
	Client entity.Client `json:"client"`
}

type ConvertLeadOutput struct {
	Lead   *entity.Lead   `json:"lead"`
	Client *entity.Client `json:"client"`
}

type AddNoteInput struct {
	LeadID   string `json:"-"`
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}

type AddTaskInput struct {
	LeadID  string     `json:"-"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date"`
}

type LedgerOutput struct {
	LeadID  string                   `json:"lead_id"`
	Entries []*entity.FollowUp       `json:"entries"`
	Metrics pipeline.FollowUpMetrics `json:"metrics"`
}

// ProposalOutput expõe os totais calculados junto com a proposta.
type ProposalOutput struct {
	*entity.Proposal
	Subtotal   float64 `json:"subtotal"`
	GrandTotal float64 `json:"grand_total"`
}

func NewProposalOutput(p *entity.Proposal) ProposalOutput {
	return ProposalOutput{
		Proposal:   p,
		Subtotal:   p.Subtotal(),
		GrandTotal: p.GrandTotal(),
	}
}

type UpdateItemInput struct {
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type ReportInput struct {
	Role    pipeline.Role     `json:"role"`
	OwnerID string            `json:"owner_id"`
	Filter  entity.LeadFilter `json:"filter"`
}
