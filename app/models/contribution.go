package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContributionType string

const (
	ContributionPriceUpdate       ContributionType = "price_update"
	ContributionAvailability      ContributionType = "availability"
	ContributionNewProduct        ContributionType = "new_product"
	ContributionNewStore          ContributionType = "new_store"
	ContributionStoreUpdate       ContributionType = "store_update"
	ContributionAddProductToStore ContributionType = "add_product_to_store"
	ContributionBugReport         ContributionType = "bug_report"
	ContributionFeatureRequest    ContributionType = "feature_request"
	ContributionSupport           ContributionType = "support"
	ContributionBoth              ContributionType = "both"
)

var ContributionTypes = []ContributionType{
	ContributionPriceUpdate,
	ContributionAvailability,
	ContributionNewProduct,
	ContributionNewStore,
	ContributionStoreUpdate,
	ContributionAddProductToStore,
	ContributionBugReport,
	ContributionFeatureRequest,
	ContributionSupport,
	ContributionBoth,
}

func (t ContributionType) Valid() bool {
	for _, known := range ContributionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CarriesSeverity reports whether contributions of this type may set a bug
// severity.
func (t ContributionType) CarriesSeverity() bool {
	return t == ContributionBugReport || t == ContributionBoth
}

type ContributionStatus string

const (
	StatusPending  ContributionStatus = "pending"
	StatusApproved ContributionStatus = "approved"
	StatusRejected ContributionStatus = "rejected"
	StatusDeleted  ContributionStatus = "deleted"
)

func (s ContributionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// CanTransition reports whether a review action may move a contribution from
// one status to another. Same-status moves are allowed and change nothing.
// Nothing leaves deleted.
func CanTransition(from, to ContributionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusDeleted
	case StatusApproved, StatusRejected:
		return to == StatusDeleted
	default:
		return false
	}
}

// TransitionSources lists the statuses that can move to `to`, excluding `to`
// itself.
func TransitionSources(to ContributionStatus) []ContributionStatus {
	var out []ContributionStatus
	for _, from := range []ContributionStatus{StatusPending, StatusApproved, StatusRejected, StatusDeleted} {
		if from != to && CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

type ContributionPriority string

const (
	PriorityLow    ContributionPriority = "low"
	PriorityNormal ContributionPriority = "normal"
	PriorityHigh   ContributionPriority = "high"
	PriorityUrgent ContributionPriority = "urgent"
)

func (p ContributionPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type BugSeverity string

const (
	SeverityLow      BugSeverity = "low"
	SeverityMedium   BugSeverity = "medium"
	SeverityHigh     BugSeverity = "high"
	SeverityCritical BugSeverity = "critical"
)

func (s BugSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type Contribution struct {
	ID                   string               `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID               string               `gorm:"size:36;not null;index" json:"userId"`
	StoreID              *string              `gorm:"size:36;index" json:"storeId"`
	ProductID            *string              `gorm:"size:36;index" json:"productId"`
	Type                 ContributionType     `gorm:"size:40;not null;index" json:"type"`
	ReportedPrice        decimal.NullDecimal  `gorm:"type:decimal(12,2)" json:"reportedPrice"`
	ReportedAvailability *bool                `json:"reportedAvailability"`
	Data                 datatypes.JSON       `json:"data"`
	Comment              string               `gorm:"type:text" json:"comment"`
	Status               ContributionStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Priority             ContributionPriority `gorm:"size:20;not null;default:'normal'" json:"priority"`
	Severity             *BugSeverity         `gorm:"size:20" json:"severity,omitempty"`
	IsResolved           bool                 `gorm:"not null;default:false" json:"isResolved"`
	AdminNotes           string               `gorm:"type:text" json:"adminNotes,omitempty"`
	AdminResponse        string               `gorm:"type:text" json:"adminResponse,omitempty"`
	ReviewedBy           *string              `gorm:"size:36" json:"reviewedBy"`
	ReviewedAt           *time.Time           `json:"reviewedAt"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

func (c *Contribution) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.Priority == "" {
		c.Priority = PriorityNormal
	}
	return
}

// Payload decodes Data into the variant matching Type.
func (c *Contribution) Payload() (ContributionPayload, error) {
	return DecodePayload(c.Type, c.Data)
}
