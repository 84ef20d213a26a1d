package pipeline

import (
	"strings"
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// Transições permitidas no modo estrito. No modo padrão (drag-and-drop livre
// do quadro) qualquer estágio válido leva a qualquer outro.
var strictTransitions = map[entity.Stage]map[entity.Stage]bool{
	entity.StageNew:         {entity.StageContacted: true, entity.StageNegotiation: true, entity.StageLost: true},
	entity.StageContacted:   {entity.StageNegotiation: true, entity.StageWon: true, entity.StageLost: true},
	entity.StageNegotiation: {entity.StageWon: true, entity.StageLost: true},
	entity.StageWon:         {},
	entity.StageLost:        {},
}

type StageChange struct {
	LeadID string       `json:"lead_id"`
	From   entity.Stage `json:"from"`
	To     entity.Stage `json:"to"`
	At     time.Time    `json:"at"`
}

func (c StageChange) Changed() bool {
	return c.From != c.To
}

type StateMachine struct {
	strict bool
}

func NewStateMachine(strict bool) *StateMachine {
	return &StateMachine{strict: strict}
}

func (m *StateMachine) Strict() bool {
	return m.strict
}

func (m *StateMachine) CanTransition(from, to entity.Stage) bool {
	if !to.IsValid() {
		return false
	}
	if !m.strict || from == to || from == "" {
		return true
	}
	return strictTransitions[from][to]
}

// Transition muda o estágio do lead e renova updated_at.
func (m *StateMachine) Transition(lead *entity.Lead, to entity.Stage, now time.Time) (StageChange, error) {
	to = entity.Stage(strings.ToUpper(strings.TrimSpace(string(to))))
	if !to.IsValid() {
		return StageChange{}, entity.ValidationErrors{{Field: "status", Message: "is not a pipeline stage"}}
	}
	// lead convertido já gerou cliente; sair de WON deixaria o cliente órfão
	if lead.IsConverted() && to != entity.StageWon {
		return StageChange{}, entity.ErrAlreadyConverted
	}
	if !m.CanTransition(lead.Status, to) {
		return StageChange{}, entity.ErrInvalidTransition
	}

	change := StageChange{LeadID: lead.ID, From: lead.Status, To: to, At: now}
	lead.Status = to
	lead.UpdatedAt = now
	return change, nil
}

// Convert finaliza o lead como WON e guarda o cliente gerado. É uma operação
// de mão única: a segunda chamada falha com ErrAlreadyConverted. No modo
// estrito o lead precisa já estar em WON ou poder chegar lá pela tabela.
func (m *StateMachine) Convert(lead *entity.Lead, clientID string, now time.Time) (StageChange, error) {
	if lead.IsConverted() {
		return StageChange{}, entity.ErrAlreadyConverted
	}
	if lead.Status == entity.StageLost {
		return StageChange{}, entity.ValidationErrors{{Field: "status", Message: "a lost lead cannot be converted"}}
	}
	if !m.CanTransition(lead.Status, entity.StageWon) {
		return StageChange{}, entity.ErrInvalidTransition
	}
	if strings.TrimSpace(clientID) == "" {
		return StageChange{}, entity.ValidationErrors{{Field: "client_id", Message: "is required"}}
	}

	change := StageChange{LeadID: lead.ID, From: lead.Status, To: entity.StageWon, At: now}
	lead.Status = entity.StageWon
	lead.ConvertedToClientID = clientID
	lead.ConvertedAt = &now
	lead.UpdatedAt = now
	return change, nil
}
