package dto

import "github.com/jhoicas/todolap-api/internal/domain/entity"

// NewProductResponse mapea la entidad a su salida HTTP.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewServiceResponse mapea un servicio del catálogo.
func NewServiceResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Cost:         s.Cost,
		TechnicianID: s.TechnicianID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// NewSaleResponse mapea una venta y sus líneas (si vienen cargadas).
func NewSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		OperatorID:    s.OperatorID,
		OperatorName:  s.OperatorName,
		PaymentMethod: s.PaymentMethod,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, SaleLineResponse{
			Position:    l.Position,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}

// NewQuoteResponse mapea una cotización y sus líneas.
func NewQuoteResponse(q *entity.ServiceQuote) QuoteResponse {
	out := QuoteResponse{
		ID:            q.ID,
		ServiceID:     q.ServiceID,
		ServiceName:   q.ServiceName,
		ClientName:    q.ClientName,
		ServicePrice:  q.ServicePrice,
		ProductsPrice: q.ProductsPrice,
		Total:         q.Total,
		Status:        q.Status,
		CreatedAt:     q.CreatedAt,
		PaidAt:        q.PaidAt,
	}
	for _, l := range q.Lines {
		out.Lines = append(out.Lines, QuoteLineResponse{
			Position:    l.Position,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}

// NewUserResponse mapea un usuario (sin hash de password).
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
