package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the lifecycle state of a budget (orçamento).
type BudgetStatus string

const (
	BudgetDraft    BudgetStatus = "draft"
	BudgetSent     BudgetStatus = "sent"
	BudgetRevision BudgetStatus = "revision"
	BudgetApproved BudgetStatus = "approved"
	BudgetRejected BudgetStatus = "rejected"
	// BudgetExpired is never stored; it is computed from the validity date.
	// See Budget.EffectiveStatus.
	BudgetExpired BudgetStatus = "expired"
)

// budgetTransitions is the full transition table. Approved and rejected are
// terminal; nothing re-enters draft.
var budgetTransitions = map[BudgetStatus][]BudgetStatus{
	BudgetDraft:    {BudgetSent},
	BudgetSent:     {BudgetApproved, BudgetRejected, BudgetRevision},
	BudgetRevision: {BudgetApproved, BudgetRejected},
	BudgetApproved: {},
	BudgetRejected: {},
}

// IsValid reports whether s is a storable budget status.
func (s BudgetStatus) IsValid() bool {
	_, ok := budgetTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is an allowed edge.
func (s BudgetStatus) CanTransitionTo(next BudgetStatus) bool {
	for _, allowed := range budgetTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ItemCategory classifies a budget line item.
type ItemCategory string

const (
	CategoryMaterial   ItemCategory = "material"
	CategoryLabor      ItemCategory = "labor"
	CategoryEquipment  ItemCategory = "equipment"
	CategoryService    ItemCategory = "service"
	CategoryElectrical ItemCategory = "electrical"
	CategorySolar      ItemCategory = "solar"
	CategoryHydraulic  ItemCategory = "hydraulic"
	CategoryPool       ItemCategory = "pool"
	CategoryAdditional ItemCategory = "additional"
)

// TotalsBucket identifies which of the three budget totals a category feeds.
type TotalsBucket string

const (
	BucketMaterials  TotalsBucket = "materials"
	BucketLabor      TotalsBucket = "labor"
	BucketAdditional TotalsBucket = "additional"
)

// categoryBuckets is the fixed category -> bucket table. Equipment and
// service items count as "additional", not as their own bucket.
var categoryBuckets = map[ItemCategory]TotalsBucket{
	CategoryMaterial:   BucketMaterials,
	CategoryElectrical: BucketMaterials,
	CategorySolar:      BucketMaterials,
	CategoryHydraulic:  BucketMaterials,
	CategoryPool:       BucketMaterials,
	CategoryLabor:      BucketLabor,
	CategoryEquipment:  BucketAdditional,
	CategoryService:    BucketAdditional,
	CategoryAdditional: BucketAdditional,
}

// IsValid reports whether c is a known item category.
func (c ItemCategory) IsValid() bool {
	_, ok := categoryBuckets[c]
	return ok
}

// Bucket returns the totals bucket the category maps into.
func (c ItemCategory) Bucket() TotalsBucket {
	return categoryBuckets[c]
}

// BudgetTotals holds the three derived category totals of a budget.
type BudgetTotals struct {
	Materials  decimal.Decimal `json:"total_materials"`
	Labor      decimal.Decimal `json:"total_labor"`
	Additional decimal.Decimal `json:"total_additional"`
}

// GrandTotal is the sum of the three buckets.
func (t BudgetTotals) GrandTotal() decimal.Decimal {
	return t.Materials.Add(t.Labor).Add(t.Additional)
}

// ComputeTotals derives the category totals from the current item list.
// It is the single source of truth for the bucket sums; totals are never
// edited directly, only recomputed through this function.
func ComputeTotals(items []BudgetItem) BudgetTotals {
	totals := BudgetTotals{
		Materials:  decimal.Zero,
		Labor:      decimal.Zero,
		Additional: decimal.Zero,
	}
	for _, item := range items {
		line := item.LineTotal()
		switch item.Category.Bucket() {
		case BucketMaterials:
			totals.Materials = totals.Materials.Add(line)
		case BucketLabor:
			totals.Labor = totals.Labor.Add(line)
		case BucketAdditional:
			totals.Additional = totals.Additional.Add(line)
		}
	}
	return totals
}

// Budget is a quote/estimate grouping priced line items for a client project.
type Budget struct {
	BudgetID        string          `json:"id"`
	ClientID        string          `json:"client_id,omitempty"` // optional FK -> clients.id
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Responsible     string          `json:"responsible"`
	ValidityDate    *time.Time      `json:"validity_date,omitempty"`
	Status          BudgetStatus    `json:"status"`
	TotalMaterials  decimal.Decimal `json:"total_materials"`
	TotalLabor      decimal.Decimal `json:"total_labor"`
	TotalAdditional decimal.Decimal `json:"total_additional"`
	IsLocked        bool            `json:"is_locked"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty"`
	ApprovalNotes   string          `json:"approval_notes,omitempty"`
	ApprovalIP      string          `json:"approval_ip,omitempty"`
	RejectionDate   *time.Time      `json:"rejection_date,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Version         int64           `json:"version"` // optimistic concurrency counter
	AuditFields
}

// Totals returns the persisted bucket totals.
func (b *Budget) Totals() BudgetTotals {
	return BudgetTotals{
		Materials:  b.TotalMaterials,
		Labor:      b.TotalLabor,
		Additional: b.TotalAdditional,
	}
}

// GrandTotal is the budget's full value across all buckets.
func (b *Budget) GrandTotal() decimal.Decimal {
	return b.Totals().GrandTotal()
}

// ApplyTotals overwrites the persisted bucket totals.
func (b *Budget) ApplyTotals(t BudgetTotals) {
	b.TotalMaterials = t.Materials
	b.TotalLabor = t.Labor
	b.TotalAdditional = t.Additional
}

// EffectiveStatus returns the status as presented to users: a budget still
// awaiting a decision past its validity date reads as expired. The stored
// status is never rewritten.
func (b *Budget) EffectiveStatus(now time.Time) BudgetStatus {
	if b.ValidityDate != nil && now.After(*b.ValidityDate) {
		if b.Status == BudgetSent || b.Status == BudgetRevision {
			return BudgetExpired
		}
	}
	return b.Status
}

// BudgetItem is one priced, categorized component of a budget. Items are
// append/remove only; an edit is modeled as remove then add.
type BudgetItem struct {
	ItemID         string            `json:"id"`
	BudgetID       string            `json:"budget_id"`
	Description    string            `json:"description"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Unit           string            `json:"unit"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Category       ItemCategory      `json:"category"`
	TechnicalSpecs map[string]string `json:"technical_specs,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// LineTotal is quantity × unit price.
func (i *BudgetItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// BudgetComment is an append-only message on a budget's discussion thread.
type BudgetComment struct {
	CommentID    string    `json:"id"`
	BudgetID     string    `json:"budget_id"`
	AuthorID     string    `json:"user_id"`
	AuthorName   string    `json:"author_name,omitempty"` // joined from the author row on reads
	Content      string    `json:"comment"`
	IsAdminReply bool      `json:"is_admin_reply"`
	CreatedAt    time.Time `json:"created_at"`
}
