package dto

// SendDocumentRequest envío de la orden al proveedor.
type SendDocumentRequest struct {
	Channel   string `json:"channel" validate:"required,oneof=email whatsapp"`
	Recipient string `json:"recipient" validate:"required,max=200"`
	Message   string `json:"message" validate:"max=2000"`
}

// SendDocumentResponse resultado del envío.
type SendDocumentResponse struct {
	OrderID   string `json:"order_id"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`     // estado de la orden después del envío
	MessageID string `json:"message_id"` // id devuelto por la función remota
}
