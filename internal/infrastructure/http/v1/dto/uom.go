package dto

import (
	"gudang/internal/domain/catalogs/uom"
)

// --- Request DTOs ---

// CreateUomRequest is the request body for creating a unit of measure.
type CreateUomRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Symbol      string  `json:"symbol" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateUomRequest) ToEntity() *uom.Uom {
	item := uom.NewUom(r.Code, r.Name, r.Symbol)
	item.Description = r.Description
	return item
}

// UpdateUomRequest is the request body for updating a unit of measure.
type UpdateUomRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Symbol      string  `json:"symbol" binding:"required"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateUomRequest) ApplyTo(item *uom.Uom) {
	item.Code = r.Code
	item.Name = r.Name
	item.Symbol = r.Symbol
	item.Description = r.Description
	item.Version = r.Version
}

// --- Response DTOs ---

// UomResponse is the response body for a unit of measure.
type UomResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	Description  *string `json:"description,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromUom creates response DTO from domain entity.
func FromUom(item *uom.Uom) *UomResponse {
	return &UomResponse{
		ID:           item.ID.String(),
		Code:         item.Code,
		Name:         item.Name,
		Symbol:       item.Symbol,
		Description:  item.Description,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}
