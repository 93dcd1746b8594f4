package audit

import (
	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
)

// Resource types stored in audit_logs.resource_type
const (
	ResourceUser    = "user"
	ResourceProduct = "product"
	ResourceOrder   = "order"
)

// UserRegistered builds the entry for a self-service registration
func UserRegistered(user *models.User) *models.AuditLog {
	return models.NewAuditLog(models.AuditActionUserRegistered, ResourceUser).
		WithActor(user.ID).
		WithResource(user.ID).
		WithDetails(map[string]interface{}{"email": user.Email, "role": user.Role})
}

// UserApproved builds the entry for an admin approving an account
func UserApproved(adminID, userID uuid.UUID) *models.AuditLog {
	return models.NewAuditLog(models.AuditActionUserApproved, ResourceUser).
		WithActor(adminID).
		WithResource(userID)
}

// UserRejected builds the entry for an admin deleting a pending account
func UserRejected(adminID, userID uuid.UUID) *models.AuditLog {
	return models.NewAuditLog(models.AuditActionUserRejected, ResourceUser).
		WithActor(adminID).
		WithResource(userID)
}

// ProductCreated builds the entry for a new catalog product
func ProductCreated(adminID uuid.UUID, product *models.Product) *models.AuditLog {
	return models.NewAuditLog(models.AuditActionProductCreated, ResourceProduct).
		WithActor(adminID).
		WithResource(product.ID).
		WithDetails(map[string]interface{}{"name": product.Name, "price": product.Price, "stock": product.Stock})
}

// OrderCreated builds the entry for a placed order
func OrderCreated(order *models.Order) *models.AuditLog {
	return models.NewAuditLog(models.AuditActionOrderCreated, ResourceOrder).
		WithActor(order.UserID).
		WithResource(order.ID).
		WithDetails(map[string]interface{}{"total": order.Total, "items": len(order.Items)})
}

// OrderStatusUpdated builds the entry for a status change
func OrderStatusUpdated(adminID, orderID uuid.UUID, from, to models.OrderStatus, reason *string) *models.AuditLog {
	details := map[string]interface{}{"from": from, "to": to}
	if reason != nil {
		details["rejection_reason"] = *reason
	}
	return models.NewAuditLog(models.AuditActionOrderStatusUpdated, ResourceOrder).
		WithActor(adminID).
		WithResource(orderID).
		WithDetails(details)
}
