package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "DRAFT"
	ProposalStatusSent     ProposalStatus = "SENT"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

type ProposalItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Total é sempre quantity × unit_price; nunca é persistido.
func (i ProposalItem) Total() float64 {
	return i.total().InexactFloat64()
}

func (i ProposalItem) total() decimal.Decimal {
	return decimal.NewFromFloat(i.Quantity).Mul(decimal.NewFromFloat(i.UnitPrice)).Round(2)
}

// wholeCents diz se v cabe em NUMERIC(14,2) sem arredondar.
func wholeCents(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

func (i ProposalItem) MarshalJSON() ([]byte, error) {
	type item ProposalItem
	return json.Marshal(struct {
		item
		Total float64 `json:"total"`
	}{item(i), i.Total()})
}

func (i ProposalItem) validate(prefix string) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(i.Description) == "" {
		errs = append(errs, ValidationError{prefix + "description", "is required"})
	}
	if i.Quantity < 0 {
		errs = append(errs, ValidationError{prefix + "quantity", "must not be negative"})
	}
	if i.UnitPrice < 0 {
		errs = append(errs, ValidationError{prefix + "unit_price", "must not be negative"})
	}
	return errs
}

type Proposal struct {
	ID        string         `json:"id"`
	LeadID    string         `json:"lead_id"`
	Title     string         `json:"title"`
	Items     []ProposalItem `json:"items"`
	Discount  float64        `json:"discount"`
	Status    ProposalStatus `json:"status"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	DecidedAt *time.Time     `json:"decided_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ProposalDraft struct {
	LeadID   string         `json:"lead_id"`
	Title    string         `json:"title"`
	Items    []ProposalItem `json:"items"`
	Discount float64        `json:"discount"`
}

func NewProposal(draft ProposalDraft, now time.Time) (*Proposal, error) {
	var errs ValidationErrors
	if strings.TrimSpace(draft.LeadID) == "" {
		errs = append(errs, ValidationError{"lead_id", "is required"})
	}
	if strings.TrimSpace(draft.Title) == "" {
		errs = append(errs, ValidationError{"title", "is required"})
	}
	for i, item := range draft.Items {
		errs = append(errs, item.validate(fmt.Sprintf("items[%d].", i))...)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	p := &Proposal{
		ID:        uuid.New().String(),
		LeadID:    draft.LeadID,
		Title:     strings.TrimSpace(draft.Title),
		Items:     append([]ProposalItem{}, draft.Items...),
		Status:    ProposalStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.SetDiscount(draft.Discount, now); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Proposal) IsLocked() bool {
	return p.Status != ProposalStatusDraft
}

func (p *Proposal) AddItem(item ProposalItem, now time.Time) error {
	if p.IsLocked() {
		return ErrProposalLocked
	}
	if err := item.validate("").OrNil(); err != nil {
		return err
	}
	p.Items = append(p.Items, item)
	p.UpdatedAt = now
	return nil
}

// RemoveItem remove pela posição; os itens seguintes sobem uma posição.
func (p *Proposal) RemoveItem(index int, now time.Time) error {
	if p.IsLocked() {
		return ErrProposalLocked
	}
	if index < 0 || index >= len(p.Items) {
		return invalid("index", "out of range")
	}
	p.Items = append(p.Items[:index:index], p.Items[index+1:]...)
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) UpdateItem(index int, quantity, unitPrice float64, now time.Time) error {
	if p.IsLocked() {
		return ErrProposalLocked
	}
	if index < 0 || index >= len(p.Items) {
		return invalid("index", "out of range")
	}
	updated := p.Items[index]
	updated.Quantity = quantity
	updated.UnitPrice = unitPrice
	if err := updated.validate("").OrNil(); err != nil {
		return err
	}
	p.Items[index] = updated
	p.UpdatedAt = now
	return nil
}

// SetDiscount não aceita desconto negativo nem maior que o subtotal atual.
func (p *Proposal) SetDiscount(discount float64, now time.Time) error {
	if p.IsLocked() {
		return ErrProposalLocked
	}
	d := decimal.NewFromFloat(discount)
	if d.IsNegative() {
		return invalid("discount", "must not be negative")
	}
	if !wholeCents(discount) {
		return invalid("discount", "must have at most 2 decimal places")
	}
	if d.GreaterThan(p.subtotal()) {
		return invalid("discount", "must not exceed the subtotal")
	}
	p.Discount = discount
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) Subtotal() float64 {
	return p.subtotal().InexactFloat64()
}

func (p *Proposal) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range p.Items {
		sum = sum.Add(item.total())
	}
	return sum
}

// GrandTotal = Σ itens − desconto, nunca abaixo de zero (remover itens depois
// de aplicar o desconto pode deixar o desconto maior que o subtotal).
func (p *Proposal) GrandTotal() float64 {
	total := p.subtotal().Sub(decimal.NewFromFloat(p.Discount)).Round(2)
	if total.IsNegative() {
		return 0
	}
	return total.InexactFloat64()
}

func (p *Proposal) Send(now time.Time) error {
	if p.Status != ProposalStatusDraft {
		return ErrInvalidProposalStatus
	}
	if len(p.Items) == 0 {
		return invalid("items", "at least one item is required to send")
	}
	p.Status = ProposalStatusSent
	p.SentAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) Accept(now time.Time) error {
	return p.decide(ProposalStatusAccepted, now)
}

func (p *Proposal) Reject(now time.Time) error {
	return p.decide(ProposalStatusRejected, now)
}

func (p *Proposal) decide(status ProposalStatus, now time.Time) error {
	if p.Status != ProposalStatusSent {
		return ErrInvalidProposalStatus
	}
	p.Status = status
	p.DecidedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Items = append([]ProposalItem(nil), p.Items...)
	return &c
}

type ProposalRepositoryInterface interface {
	Create(ctx context.Context, p *Proposal) error
	FindByID(ctx context.Context, id string) (*Proposal, error)
	ListByLead(ctx context.Context, leadID string) ([]*Proposal, error)
	Update(ctx context.Context, p *Proposal) error
}
