package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ContributionPayload is the type-specific part of a contribution, stored in
// the data column. Each contribution type has exactly one variant.
type ContributionPayload interface {
	ContributionType() ContributionType
}

type PriceUpdatePayload struct {
	IsPromotion bool `json:"isPromotion"`
}

type AvailabilityPayload struct{}

type AddProductToStorePayload struct{}

type NewProductPayload struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Image    string `json:"image"`
	Barcode  string `json:"barcode"`
}

type NewStorePayload struct {
	Name         string              `json:"name"`
	Brand        string              `json:"brand"`
	CategoryID   string              `json:"categoryId"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	PostalCode   string              `json:"postalCode"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
	Phone        string              `json:"phone"`
	OpeningHours OpeningHours        `json:"openingHours"`
}

// HasCoordinates reports whether both latitude and longitude were supplied.
func (p NewStorePayload) HasCoordinates() bool {
	return p.Latitude.Valid && p.Longitude.Valid
}

type StoreUpdatePayload struct {
	Name         string       `json:"name,omitempty"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city,omitempty"`
	PostalCode   string       `json:"postalCode,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	OpeningHours OpeningHours `json:"openingHours,omitempty"`
	Description  string       `json:"description,omitempty"`
}

type BugReportPayload struct {
	Description string `json:"description"`
	Page        string `json:"page,omitempty"`
	Steps       string `json:"steps,omitempty"`
}

type FeatureRequestPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SupportPayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// BothPayload carries a report that is simultaneously a bug and a feature request.
type BothPayload struct {
	Bug     string `json:"bug"`
	Feature string `json:"feature"`
}

// UnknownPayload holds the raw data of a type this build does not know.
type UnknownPayload struct {
	Type ContributionType
	Raw  json.RawMessage
}

func (PriceUpdatePayload) ContributionType() ContributionType { return ContributionPriceUpdate }
func (AvailabilityPayload) ContributionType() ContributionType { return ContributionAvailability }
func (AddProductToStorePayload) ContributionType() ContributionType { return ContributionAddProductToStore }
func (NewProductPayload) ContributionType() ContributionType { return ContributionNewProduct }
func (NewStorePayload) ContributionType() ContributionType { return ContributionNewStore }
func (StoreUpdatePayload) ContributionType() ContributionType { return ContributionStoreUpdate }
func (BugReportPayload) ContributionType() ContributionType { return ContributionBugReport }
func (FeatureRequestPayload) ContributionType() ContributionType { return ContributionFeatureRequest }
func (SupportPayload) ContributionType() ContributionType { return ContributionSupport }
func (BothPayload) ContributionType() ContributionType { return ContributionBoth }
func (p UnknownPayload) ContributionType() ContributionType { return p.Type }

// DecodePayload unmarshals raw into the variant for t. Empty or null data
// yields the zero variant.
func DecodePayload(t ContributionType, raw []byte) (ContributionPayload, error) {
	var target ContributionPayload
	switch t {
	case ContributionPriceUpdate:
		target = &PriceUpdatePayload{}
	case ContributionAvailability:
		target = &AvailabilityPayload{}
	case ContributionAddProductToStore:
		target = &AddProductToStorePayload{}
	case ContributionNewProduct:
		target = &NewProductPayload{}
	case ContributionNewStore:
		target = &NewStorePayload{}
	case ContributionStoreUpdate:
		target = &StoreUpdatePayload{}
	case ContributionBugReport:
		target = &BugReportPayload{}
	case ContributionFeatureRequest:
		target = &FeatureRequestPayload{}
	case ContributionSupport:
		target = &SupportPayload{}
	case ContributionBoth:
		target = &BothPayload{}
	default:
		return UnknownPayload{Type: t, Raw: json.RawMessage(raw)}, nil
	}

	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", t, err)
		}
	}
	return deref(target), nil
}

func EncodePayload(p ContributionPayload) (datatypes.JSON, error) {
	if u, ok := p.(UnknownPayload); ok {
		return datatypes.JSON(u.Raw), nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func deref(p ContributionPayload) ContributionPayload {
	switch v := p.(type) {
	case *PriceUpdatePayload:
		return *v
	case *AvailabilityPayload:
		return *v
	case *AddProductToStorePayload:
		return *v
	case *NewProductPayload:
		return *v
	case *NewStorePayload:
		return *v
	case *StoreUpdatePayload:
		return *v
	case *BugReportPayload:
		return *v
	case *FeatureRequestPayload:
		return *v
	case *SupportPayload:
		return *v
	case *BothPayload:
		return *v
	}
	return p
}
