package pipeline

import (
	"sort"

	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

type Role string

const (
	RoleSales   Role = "sales"
	RoleManager Role = "manager"
)

func (r Role) IsValid() bool {
	return r == RoleSales || r == RoleManager
}

// Report é fechado: só SalesRepReport e ManagerReport implementam.
type Report interface {
	ReportRole() Role
	isReport()
}

// SalesRepReport é a visão de um vendedor sobre a própria carteira.
type SalesRepReport struct {
	Role      Role     `json:"role"`
	OwnerID   string   `json:"owner_id"`
	OwnerName string   `json:"owner_name"`
	Overview  Overview `json:"overview"`
}

func (SalesRepReport) ReportRole() Role { return RoleSales }
func (SalesRepReport) isReport()        {}

type OwnerKPIs struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	KPIs      KPIs   `json:"kpis"`
}

// ManagerReport traz o time inteiro e o recorte por dono.
type ManagerReport struct {
	Role     Role        `json:"role"`
	Overview Overview    `json:"overview"`
	Owners   []OwnerKPIs `json:"owners"`
}

func (ManagerReport) ReportRole() Role { return RoleManager }
func (ManagerReport) isReport()        {}

func NewSalesRepReport(leads []*entity.Lead, ownerID, ownerName string, f entity.LeadFilter) SalesRepReport {
	f.OwnerID = ownerID
	return SalesRepReport{
		Role:      RoleSales,
		OwnerID:   ownerID,
		OwnerName: displayName(ownerID, ownerName),
		Overview:  BuildOverview(leads, f),
	}
}

// NewManagerReport ordena os donos por valor de pipeline (maior primeiro).
// names resolve ids para nomes; id sem nome aparece como o próprio id.
func NewManagerReport(leads []*entity.Lead, names map[string]string, f entity.LeadFilter) ManagerReport {
	overview := BuildOverview(leads, f)
	filtered := overview.Board.Leads()

	byOwner := make(map[string][]*entity.Lead)
	for _, l := range filtered {
		byOwner[l.OwnerID] = append(byOwner[l.OwnerID], l)
	}

	owners := make([]OwnerKPIs, 0, len(byOwner))
	for id, ls := range byOwner {
		owners = append(owners, OwnerKPIs{
			OwnerID:   id,
			OwnerName: displayName(id, names[id]),
			KPIs:      ComputeKPIs(ls),
		})
	}
	sort.Slice(owners, func(i, j int) bool {
		if owners[i].KPIs.PipelineValue != owners[j].KPIs.PipelineValue {
			return owners[i].KPIs.PipelineValue > owners[j].KPIs.PipelineValue
		}
		return owners[i].OwnerID < owners[j].OwnerID
	})

	return ManagerReport{Role: RoleManager, Overview: overview, Owners: owners}
}

func displayName(id, name string) string {
	if name != "" {
		return name
	}
	if id == "" {
		return "Unassigned"
	}
	return id
}
