package dto

import (
	"encoding/json"

	"github.com/getwindl/windl/internal/model"
)

// Response is the envelope every vendor API call answers with. Exactly
// one of the payload fields is populated on success; Errors and
// ValidationContainer carry failure detail.
type Response struct {
	Skus                   []Sku                   `json:"Skus"`
	ProductDownloadOptions []ProductDownloadOption `json:"ProductDownloadOptions"`
	Errors                 []ErrorEntry            `json:"Errors"`
	ValidationContainer    *ValidationContainer    `json:"ValidationContainer"`
	Tickets                json.RawMessage         `json:"Tickets"`
}

// Sku is one installation-language offering of a product edition.
type Sku struct {
	ID                          string   `json:"Id"`
	Language                    string   `json:"Language"`
	LocalizedLanguage           string   `json:"LocalizedLanguage"`
	LocalizedProductDisplayName string   `json:"LocalizedProductDisplayName"`
	Description                 string   `json:"Description"`
	ProductDisplayName          string   `json:"ProductDisplayName"`
	ProductEditionName          string   `json:"ProductEditionName"`
	FriendlyFileNames           []string `json:"FriendlyFileNames"`
}

// ProductDownloadOption is one downloadable artifact of a SKU.
// DownloadType is the vendor's numeric architecture code.
type ProductDownloadOption struct {
	URI          string `json:"Uri"`
	DownloadType int    `json:"DownloadType"`
}

// ToArchitecture converts the option to the domain type, mapping the
// numeric download type to an architecture name.
func (o ProductDownloadOption) ToArchitecture() model.Architecture {
	return model.Architecture{
		Name: model.ArchitectureName(o.DownloadType),
		URL:  o.URI,
	}
}

// ErrorEntry is one entry of the vendor's legacy flat error list.
type ErrorEntry struct {
	Type  int    `json:"Type"`
	Value string `json:"Value"`
}

// ValidationContainer is the vendor's newer structured validation-error
// container. Entry shapes vary between endpoints, so they are kept raw.
type ValidationContainer struct {
	ErrorList []json.RawMessage `json:"ErrorList"`
	Errors    []json.RawMessage `json:"Errors"`
}

// HasErrors reports whether the container holds any validation errors.
// Safe on a nil receiver (the field is absent from most responses).
func (v *ValidationContainer) HasErrors() bool {
	return v != nil && (len(v.ErrorList) > 0 || len(v.Errors) > 0)
}

// First returns the raw text of the first validation error, preferring
// ErrorList over Errors.
func (v *ValidationContainer) First() string {
	if v == nil {
		return ""
	}
	if len(v.ErrorList) > 0 {
		return string(v.ErrorList[0])
	}
	if len(v.Errors) > 0 {
		return string(v.Errors[0])
	}
	return ""
}
