package dto

import (
	"gudang/internal/domain/catalogs/location"
)

// --- Request DTOs ---

// CreateLocationRequest is the request body for creating a location.
type CreateLocationRequest struct {
	Code     string                `json:"code"`
	Name     string                `json:"name" binding:"required"`
	Type     location.LocationType `json:"type" binding:"required"`
	Address  string                `json:"address"`
	IsActive *bool                 `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLocationRequest) ToEntity() *location.Location {
	item := location.NewLocation(r.Code, r.Name, r.Type)
	item.Address = r.Address
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
	}
	return item
}

// UpdateLocationRequest is the request body for updating a location.
type UpdateLocationRequest struct {
	Code     string                `json:"code"`
	Name     string                `json:"name" binding:"required"`
	Type     location.LocationType `json:"type" binding:"required"`
	Address  string                `json:"address"`
	IsActive bool                  `json:"isActive"`
	Version  int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateLocationRequest) ApplyTo(item *location.Location) {
	item.Code = r.Code
	item.Name = r.Name
	item.Type = r.Type
	item.Address = r.Address
	item.IsActive = r.IsActive
	item.Version = r.Version
}

// --- Response DTOs ---

// LocationResponse is the response body for a location.
type LocationResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Type         location.LocationType `json:"type"`
	Address      string                `json:"address,omitempty"`
	IsActive     bool                  `json:"isActive"`
	DeletionMark bool                  `json:"deletionMark"`
	Version      int                   `json:"version"`
}

// FromLocation creates response DTO from domain entity.
func FromLocation(item *location.Location) *LocationResponse {
	return &LocationResponse{
		ID:           item.ID.String(),
		Code:         item.Code,
		Name:         item.Name,
		Type:         item.Type,
		Address:      item.Address,
		IsActive:     item.IsActive,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}
