package pipeline

import "github.com/xavierca1/ligue-pipeline/internal/entity"

type StageBucket struct {
	Stage      entity.Stage   `json:"stage"`
	Count      int            `json:"count"`
	Leads      []*entity.Lead `json:"leads"`
	TotalValue float64        `json:"total_value"`
}

// Board tem sempre um balde por estágio, na ordem do funil.
type Board []StageBucket

func Filter(leads []*entity.Lead, f entity.LeadFilter) []*entity.Lead {
	out := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func GroupByStage(leads []*entity.Lead) Board {
	board := emptyBoard()
	for _, l := range leads {
		idx := l.Status.Index()
		if idx < 0 {
			continue
		}
		board[idx].add(l)
	}
	return board
}

// Filter aplica o filtro dentro de cada balde e recalcula contagem e total;
// o resultado é igual a agrupar os leads já filtrados.
func (b Board) Filter(f entity.LeadFilter) Board {
	board := emptyBoard()
	for _, bucket := range b {
		idx := bucket.Stage.Index()
		if idx < 0 {
			continue
		}
		for _, l := range bucket.Leads {
			if f.Match(l) {
				board[idx].add(l)
			}
		}
	}
	return board
}

func (b Board) Bucket(stage entity.Stage) StageBucket {
	for _, bucket := range b {
		if bucket.Stage == stage {
			return bucket
		}
	}
	return StageBucket{Stage: stage, Leads: []*entity.Lead{}}
}

func (b Board) Leads() []*entity.Lead {
	out := make([]*entity.Lead, 0)
	for _, bucket := range b {
		out = append(out, bucket.Leads...)
	}
	return out
}

func (s *StageBucket) add(l *entity.Lead) {
	s.Leads = append(s.Leads, l)
	s.Count++
	s.TotalValue += l.Value
}

func emptyBoard() Board {
	board := make(Board, len(entity.Stages))
	for i, stage := range entity.Stages {
		board[i] = StageBucket{Stage: stage, Leads: []*entity.Lead{}}
	}
	return board
}

type KPIs struct {
	TotalLeads      int               `json:"total_leads"`
	PipelineValue   float64           `json:"pipeline_value"`
	WeightedValue   float64           `json:"weighted_value"`
	ConversionRate  float64           `json:"conversion_rate"`
	AverageDealSize float64           `json:"average_deal_size"`
	Funnel          []StageConversion `json:"funnel"`
}

func ComputeKPIs(leads []*entity.Lead) KPIs {
	return KPIs{
		TotalLeads:      len(leads),
		PipelineValue:   PipelineValue(leads),
		WeightedValue:   WeightedValue(leads),
		ConversionRate:  ConversionRate(leads),
		AverageDealSize: AverageDealSize(WonLeads(leads)),
		Funnel:          Funnel(leads),
	}
}

type Overview struct {
	Filter entity.LeadFilter `json:"filter"`
	Board  Board             `json:"board"`
	KPIs   KPIs              `json:"kpis"`
}

// BuildOverview é a entrada usada pelo quadro e pelos relatórios.
func BuildOverview(leads []*entity.Lead, f entity.LeadFilter) Overview {
	filtered := Filter(leads, f)
	return Overview{
		Filter: f,
		Board:  GroupByStage(filtered),
		KPIs:   ComputeKPIs(filtered),
	}
}
