package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client é o registro externo criado quando um lead ganho é convertido.
type Client struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Document  string    `json:"document,omitempty"` // CPF/CNPJ
	CreatedAt time.Time `json:"created_at"`
}

// NewClientFromLead usa os dados do lead como base; campos vazios do override são ignorados.
func NewClientFromLead(lead *Lead, override Client, now time.Time) (*Client, error) {
	if lead == nil {
		return nil, errors.New("lead is required")
	}
	c := &Client{
		ID:        uuid.New().String(),
		LeadID:    lead.ID,
		Name:      firstNonEmpty(override.Name, lead.Name),
		Company:   firstNonEmpty(override.Company, lead.Company),
		Email:     firstNonEmpty(override.Email, lead.Email),
		Phone:     firstNonEmpty(override.Phone, lead.Phone),
		Document:  strings.TrimSpace(override.Document),
		CreatedAt: now,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Validate() error {
	var errs ValidationErrors
	if c.Name == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if c.LeadID == "" {
		errs = append(errs, ValidationError{"lead_id", "is required"})
	}
	return errs.OrNil()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	Delete(ctx context.Context, id string) error
}
