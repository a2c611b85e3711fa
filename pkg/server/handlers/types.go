package handlers

import (
	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/params"
)

// ReadResponse is the body of a successful read.
type ReadResponse struct {
	Resource string           `json:"resource"`
	Columns  []string         `json:"columns"`
	Count    int              `json:"count"`
	Rows     []map[string]any `json:"rows"`
}

// QueryView is the JSON form of a validated query.
type QueryView struct {
	Filter  string   `json:"filter,omitempty"`
	Select  []string `json:"select,omitempty"`
	OrderBy []string `json:"orderby,omitempty"`
	Top     *int     `json:"top,omitempty"`
	Skip    *int     `json:"skip,omitempty"`
}

// ExplainResponse is the body of a successful explain.
type ExplainResponse struct {
	Resource string            `json:"resource"`
	Table    string            `json:"table"`
	Params   map[string]string `json:"params"`
	Query    QueryView         `json:"query"`
	SQL      string            `json:"sql"`
	Args     []interface{}     `json:"args"`
}

// NewQueryView converts q for display.
func NewQueryView(q *params.Query) QueryView {
	if q == nil {
		return QueryView{}
	}
	view := QueryView{
		Filter: q.Filter,
		Select: q.Select,
		Top:    q.Top,
		Skip:   q.Skip,
	}
	for _, c := range q.OrderBy {
		view.OrderBy = append(view.OrderBy, c.String())
	}
	return view
}

// NewExplainResponse converts a plan for display.
func NewExplainResponse(plan *gateway.Plan) *ExplainResponse {
	args := plan.Statement.Args
	if args == nil {
		args = []interface{}{}
	}
	return &ExplainResponse{
		Resource: plan.Resource.Name,
		Table:    plan.Resource.Table,
		Params:   plan.Params,
		Query:    NewQueryView(plan.Query),
		SQL:      plan.Statement.SQL,
		Args:     args,
	}
}
