package dto

import (
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/catalogs/uomconversion"
)

// --- Request DTOs ---

// CreateUomConversionRequest is the request body for creating a conversion rule.
type CreateUomConversionRequest struct {
	FromUomID string     `json:"fromUomId" binding:"required"`
	ToUomID   string     `json:"toUomId" binding:"required"`
	Rate      types.Rate `json:"rate" binding:"required"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateUomConversionRequest) ToEntity() *uomconversion.Rule {
	fromID, _ := id.Parse(r.FromUomID)
	toID, _ := id.Parse(r.ToUomID)
	return uomconversion.NewRule(fromID, toID, r.Rate)
}

// UpdateUomConversionRequest is the request body for updating a conversion rule.
type UpdateUomConversionRequest struct {
	FromUomID string     `json:"fromUomId" binding:"required"`
	ToUomID   string     `json:"toUomId" binding:"required"`
	Rate      types.Rate `json:"rate" binding:"required"`
	Version   int        `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateUomConversionRequest) ApplyTo(item *uomconversion.Rule) {
	if fromID, err := id.Parse(r.FromUomID); err == nil {
		item.FromUomID = fromID
	}
	if toID, err := id.Parse(r.ToUomID); err == nil {
		item.ToUomID = toID
	}
	item.Rate = r.Rate
	item.Version = r.Version
}

// --- Response DTOs ---

// UomConversionResponse is the response body for a conversion rule.
type UomConversionResponse struct {
	ID           string     `json:"id"`
	FromUomID    string     `json:"fromUomId"`
	ToUomID      string     `json:"toUomId"`
	Rate         types.Rate `json:"rate"`
	DeletionMark bool       `json:"deletionMark"`
	Version      int        `json:"version"`
}

// FromUomConversion creates response DTO from domain entity.
func FromUomConversion(item *uomconversion.Rule) *UomConversionResponse {
	return &UomConversionResponse{
		ID:           item.ID.String(),
		FromUomID:    item.FromUomID.String(),
		ToUomID:      item.ToUomID.String(),
		Rate:         item.Rate,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}

// --- Conversion resolution ---

// ConvertQuantityResponse is the result of a quantity conversion.
type ConvertQuantityResponse struct {
	FromUomID string         `json:"fromUomId"`
	ToUomID   string         `json:"toUomId"`
	Rate      types.Rate     `json:"rate"`
	Quantity  types.Quantity `json:"quantity"`
	Converted types.Quantity `json:"converted"`
}
