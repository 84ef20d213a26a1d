// Package pipeline contém os cálculos puros do funil de vendas: valor do
// pipeline, conversão por estágio, ledger de follow-ups, máquina de estados e
// agregação por estágio. Nada aqui faz I/O; tudo opera sobre um snapshot.
package pipeline

import (
	"math"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// PipelineValue soma o valor dos leads ainda abertos (nem WON nem LOST).
func PipelineValue(leads []*entity.Lead) float64 {
	var total float64
	for _, l := range leads {
		if l.Status.IsClosed() {
			continue
		}
		total += l.Value
	}
	return total
}

// WeightedValue pondera cada lead aberto pela probabilidade. Probabilidade
// ausente vale 0 e contribui com 0.
func WeightedValue(leads []*entity.Lead) float64 {
	var total float64
	for _, l := range leads {
		if l.Status.IsClosed() {
			continue
		}
		total += l.Value * float64(l.Probability) / 100
	}
	return total
}

func AverageDealSize(wonLeads []*entity.Lead) float64 {
	if len(wonLeads) == 0 {
		return 0
	}
	var total float64
	for _, l := range wonLeads {
		total += l.Value
	}
	return total / float64(len(wonLeads))
}

func WonLeads(leads []*entity.Lead) []*entity.Lead {
	won := make([]*entity.Lead, 0)
	for _, l := range leads {
		if l.Status == entity.StageWon {
			won = append(won, l)
		}
	}
	return won
}

// ConversionRate = ganhos / total × 100.
func ConversionRate(leads []*entity.Lead) float64 {
	if len(leads) == 0 {
		return 0
	}
	return float64(len(WonLeads(leads))) / float64(len(leads)) * 100
}

// CumulativeStageConversion é a visão de funil: percentual de leads cujo
// índice de estágio é >= ao do estágio pedido, arredondado para inteiro.
// Não confundir com "quantos estão neste estágio agora".
func CumulativeStageConversion(leads []*entity.Lead, stage entity.Stage) int {
	target := stage.Index()
	if len(leads) == 0 || target < 0 {
		return 0
	}
	reached := 0
	for _, l := range leads {
		if l.Status.Index() >= target {
			reached++
		}
	}
	return int(math.Round(float64(reached) / float64(len(leads)) * 100))
}

type StageConversion struct {
	Stage      entity.Stage `json:"stage"`
	Reached    int          `json:"reached"`
	Percentage int          `json:"percentage"`
}

func Funnel(leads []*entity.Lead) []StageConversion {
	out := make([]StageConversion, 0, len(entity.Stages))
	for _, stage := range entity.Stages {
		reached := 0
		for _, l := range leads {
			if l.Status.Index() >= stage.Index() {
				reached++
			}
		}
		out = append(out, StageConversion{
			Stage:      stage,
			Reached:    reached,
			Percentage: CumulativeStageConversion(leads, stage),
		})
	}
	return out
}
