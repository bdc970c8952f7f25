package dto

import (
	"gudang/internal/core/id"
	"gudang/internal/core/types"
	"gudang/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name" binding:"required"`
	SKU         *string          `json:"sku"`
	Barcode     *string          `json:"barcode"`
	Description string           `json:"description"`
	BaseUomID   string           `json:"baseUomId" binding:"required"`
	Price       types.MinorUnits `json:"price"`
	MinStock    types.Quantity   `json:"minStock"`
	IsActive    *bool            `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	baseUomID, _ := id.Parse(r.BaseUomID)
	item := product.NewProduct(r.Code, r.Name, baseUomID)
	item.SKU = r.SKU
	item.Barcode = r.Barcode
	item.Description = r.Description
	item.Price = r.Price
	item.MinStock = r.MinStock
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
	}
	return item
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name" binding:"required"`
	SKU         *string          `json:"sku"`
	Barcode     *string          `json:"barcode"`
	Description string           `json:"description"`
	BaseUomID   string           `json:"baseUomId" binding:"required"`
	Price       types.MinorUnits `json:"price"`
	MinStock    types.Quantity   `json:"minStock"`
	IsActive    bool             `json:"isActive"`
	Version     int              `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(item *product.Product) {
	item.Code = r.Code
	item.Name = r.Name
	item.SKU = r.SKU
	item.Barcode = r.Barcode
	item.Description = r.Description
	if baseUomID, err := id.Parse(r.BaseUomID); err == nil {
		item.BaseUomID = baseUomID
	}
	item.Price = r.Price
	item.MinStock = r.MinStock
	item.IsActive = r.IsActive
	item.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	SKU          *string          `json:"sku,omitempty"`
	Barcode      *string          `json:"barcode,omitempty"`
	Description  string           `json:"description,omitempty"`
	BaseUomID    string           `json:"baseUomId"`
	Price        types.MinorUnits `json:"price"`
	MinStock     types.Quantity   `json:"minStock"`
	IsActive     bool             `json:"isActive"`
	DeletionMark bool             `json:"deletionMark"`
	Version      int              `json:"version"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(item *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:           item.ID.String(),
		Code:         item.Code,
		Name:         item.Name,
		SKU:          item.SKU,
		Barcode:      item.Barcode,
		Description:  item.Description,
		BaseUomID:    item.BaseUomID.String(),
		Price:        item.Price,
		MinStock:     item.MinStock,
		IsActive:     item.IsActive,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}
