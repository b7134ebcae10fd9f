package customer

import (
	"github.com/macropower/leads/pkg/pagination"
)

// Filters narrow a customer listing. Zero values are omitted from the query.
type Filters struct {
	HasLawsuits *bool  `json:"possuiProcessos,omitempty" url:"possuiProcessos,omitempty"`
	Status      string `json:"status,omitempty"          url:"status,omitempty"`
	Source      string `json:"source,omitempty"          url:"source,omitempty"`
	DateFrom    string `json:"dateFrom,omitempty"        url:"dateFrom,omitempty"`
	DateTo      string `json:"dateTo,omitempty"          url:"dateTo,omitempty"`
	Search      string `json:"search,omitempty"          url:"search,omitempty"`
	Letter      string `json:"letraAtual,omitempty"      url:"letraAtual,omitempty"`
	Level       string `json:"nivel,omitempty"           url:"nivel,omitempty"`
	YearMin     int    `json:"anoIngressoMin,omitempty"  url:"anoIngressoMin,omitempty"`
	YearMax     int    `json:"anoIngressoMax,omitempty"  url:"anoIngressoMax,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Page is one page of a customer listing.
type Page struct {
	Customers  []Customer      `json:"data"`
	Pagination pagination.Info `json:"pagination"`
}
