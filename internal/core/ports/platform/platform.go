package platform

import "context"

// IPResolver resolves the public IP of the acting party. Implementations are
// best-effort: callers absorb failures and record the "unknown" sentinel
// instead of propagating an error.
type IPResolver interface {
	ResolvePublicIP(ctx context.Context) (string, error)
}

// UnknownIP is recorded when the resolver cannot produce an address.
const UnknownIP = "unknown"

// CNPJRecord is the registry data returned for a company document lookup.
type CNPJRecord struct {
	CNPJ        string `json:"cnpj"`
	CompanyName string `json:"company_name"`
	TradeName   string `json:"trade_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// CNPJLookup queries a public registry for company data to prefill forms.
type CNPJLookup interface {
	Lookup(ctx context.Context, cnpj string) (*CNPJRecord, error)
}

// CommentEvent signals that a comment row was inserted on a budget.
type CommentEvent struct {
	BudgetID  string `json:"budget_id"`
	CommentID string `json:"comment_id"`
}

// ChangeNotifier pushes insert events for budget comments so portal sessions
// can refresh without polling. Publish is best-effort; delivery promises no
// ordering beyond eventually reflecting the latest insert.
type ChangeNotifier interface {
	PublishCommentAdded(ctx context.Context, event CommentEvent) error

	// SubscribeComments streams events for one budget until the context is
	// done. The returned func releases the subscription.
	SubscribeComments(ctx context.Context, budgetID string) (<-chan CommentEvent, func(), error)
}
