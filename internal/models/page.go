package models

// ModPage is one page of the /api/mods listing.
type ModPage struct {
	Pagination *Pagination  `json:"pagination"`
	Results    []ModSummary `json:"results"`
}

type Pagination struct {
	Count     int       `json:"count"`
	Links     PageLinks `json:"links"`
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	PageSize  int       `json:"page_size"`
}

type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// IsLast reports whether no further page follows this one.
func (p *ModPage) IsLast() bool {
	if p.Pagination == nil {
		return true
	}
	if p.Pagination.Links.Next == nil {
		return true
	}
	return p.Pagination.Page >= p.Pagination.PageCount
}
